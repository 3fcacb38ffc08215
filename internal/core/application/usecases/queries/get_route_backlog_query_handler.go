package queries

import (
	"context"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetRouteBacklogQueryHandler sums the Received, unclaimed consignments of a
// route the same way the allocation decision does and compares the sum with
// the configured trigger.
type GetRouteBacklogQueryHandler struct {
	db      *gorm.DB
	trigger kernel.Volume
}

// NewGetRouteBacklogQueryHandler creates a handler reporting against trigger.
func NewGetRouteBacklogQueryHandler(db *gorm.DB, trigger kernel.Volume) GetRouteBacklogQueryHandler {
	return GetRouteBacklogQueryHandler{db: db, trigger: trigger}
}

// Handle returns the backlog oldest first. An empty route is not an error.
func (h GetRouteBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetRouteBacklogQuery,
) (GetRouteBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteBacklogQueryResponse{}, err
	}

	route := query.Route()
	resp := GetRouteBacklogQueryResponse{
		Source:       route.Source(),
		Destination:  route.Destination(),
		Consignments: make([]ConsignmentResponse, 0),
		Trigger:      h.trigger.Float64(),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+consignmentColumns+`
		FROM consignments c
		WHERE c.source_office = ?
			AND c.destination_office = ?
			AND c.status = ?
			AND c.truck_id IS NULL
		ORDER BY c.received_at, c.id
	`, route.Source().Bytes(), route.Destination().Bytes(), int(consignment.Received)).Rows()
	if err != nil {
		return GetRouteBacklogQueryResponse{}, errs.NewStoreError("get route backlog", err)
	}
	defer rows.Close()

	total := kernel.ZeroVolume()
	for rows.Next() {
		c, scanErr := scanConsignment(rows)
		if scanErr != nil {
			return GetRouteBacklogQueryResponse{}, errs.NewStoreError("get route backlog", scanErr)
		}
		volume, volumeErr := kernel.NewVolume(c.Volume)
		if volumeErr != nil {
			return GetRouteBacklogQueryResponse{}, volumeErr
		}
		total = total.Add(volume)
		resp.Consignments = append(resp.Consignments, c)
	}
	if err = rows.Err(); err != nil {
		return GetRouteBacklogQueryResponse{}, errs.NewStoreError("get route backlog", err)
	}

	resp.Volume = total.Float64()
	resp.TriggerReached = len(resp.Consignments) > 0 && total.GreaterOrEqual(h.trigger)
	return resp, nil
}
