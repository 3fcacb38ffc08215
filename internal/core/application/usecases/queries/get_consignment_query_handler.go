package queries

import (
	"context"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetConsignmentQueryHandler reads one consignment by tracking number.
type GetConsignmentQueryHandler struct {
	db *gorm.DB
}

func NewGetConsignmentQueryHandler(db *gorm.DB) GetConsignmentQueryHandler {
	return GetConsignmentQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for an unknown tracking number.
func (h GetConsignmentQueryHandler) Handle(ctx context.Context, query GetConsignmentQuery) (ConsignmentResponse, error) {
	if err := query.Validate(); err != nil {
		return ConsignmentResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+consignmentColumns+`
		FROM consignments c
		WHERE c.tracking_number = ?
	`, query.TrackingNumber().String()).Rows()
	if err != nil {
		return ConsignmentResponse{}, errs.NewStoreError("get consignment", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return ConsignmentResponse{}, errs.NewStoreError("get consignment", err)
		}
		return ConsignmentResponse{}, errs.NewObjectNotFoundError("consignment", query.TrackingNumber().String())
	}

	resp, err := scanConsignment(rows)
	if err != nil {
		return ConsignmentResponse{}, errs.NewStoreError("get consignment", err)
	}
	return resp, nil
}
