package queries

import (
	"context"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListTrucksQueryHandler retrieves trucks with direct SQL.
type ListTrucksQueryHandler struct {
	db *gorm.DB
}

// NewListTrucksQueryHandler creates a handler for fleet listings.
func NewListTrucksQueryHandler(db *gorm.DB) ListTrucksQueryHandler {
	return ListTrucksQueryHandler{db: db}
}

// Handle returns trucks sorted by registration number.
func (h ListTrucksQueryHandler) Handle(ctx context.Context, query ListTrucksQuery) ([]TruckResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := h.db.WithContext(ctx).Table("trucks t").Select(truckColumns)
	if query.Office() != nil {
		sql = sql.Where("t.current_office = ?", query.Office().Bytes())
	}
	if query.Status() != nil {
		sql = sql.Where("t.status = ?", int(*query.Status()))
	}

	rows, err := sql.Order("t.registration_number").Rows()
	if err != nil {
		return nil, errs.NewStoreError("list trucks", err)
	}
	defer rows.Close()

	trucks := make([]TruckResponse, 0)
	for rows.Next() {
		t, scanErr := scanTruck(rows)
		if scanErr != nil {
			return nil, errs.NewStoreError("list trucks", scanErr)
		}
		trucks = append(trucks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewStoreError("list trucks", err)
	}
	return trucks, nil
}
