package queries

import (
	"context"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListAllocationsQueryHandler lists allocations without their truck and
// consignments; GetAllocation returns the populated view.
type ListAllocationsQueryHandler struct {
	db *gorm.DB
}

func NewListAllocationsQueryHandler(db *gorm.DB) ListAllocationsQueryHandler {
	return ListAllocationsQueryHandler{db: db}
}

// Handle orders by start date, newest first, then by id.
func (h ListAllocationsQueryHandler) Handle(
	ctx context.Context,
	query ListAllocationsQuery,
) ([]AllocationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := query.Filter()
	sql := h.db.WithContext(ctx).Table("allocations a").Select(allocationColumns)
	if filter.Status != nil {
		sql = sql.Where("a.status = ?", int(*filter.Status))
	}
	if filter.Source != nil {
		sql = sql.Where("a.source_office = ?", filter.Source.Bytes())
	}
	if filter.Destination != nil {
		sql = sql.Where("a.destination_office = ?", filter.Destination.Bytes())
	}
	if filter.Truck != nil {
		sql = sql.Where("a.truck_id = ?", filter.Truck.Bytes())
	}

	rows, err := sql.Order("a.started_at DESC, a.id").Rows()
	if err != nil {
		return nil, errs.NewStoreError("list allocations", err)
	}
	defer rows.Close()

	allocations := make([]AllocationResponse, 0)
	for rows.Next() {
		a, scanErr := scanAllocation(rows)
		if scanErr != nil {
			return nil, errs.NewStoreError("list allocations", scanErr)
		}
		allocations = append(allocations, a)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewStoreError("list allocations", err)
	}
	return allocations, nil
}
