package queries

import (
	"context"

	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAllocationQueryHandler reads an allocation, its truck and its
// consignments in allocation order.
//
// Example:
//
//	handler := NewGetAllocationQueryHandler(db)
//	query, _ := NewGetAllocationQuery(id)
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.ErrNotFound
//	}
//	fmt.Printf("%s carries %d consignments\n", view.Truck.RegistrationNumber, len(view.Consignments))
type GetAllocationQueryHandler struct {
	db *gorm.DB
}

func NewGetAllocationQueryHandler(db *gorm.DB) GetAllocationQueryHandler {
	return GetAllocationQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for an unknown id. The three reads
// run in one read-only transaction so the view is a single snapshot.
func (h GetAllocationQueryHandler) Handle(ctx context.Context, query GetAllocationQuery) (AllocationResponse, error) {
	if err := query.Validate(); err != nil {
		return AllocationResponse{}, err
	}

	var resp AllocationResponse
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY").Error; err != nil {
			return err
		}

		found, err := h.allocation(tx, query)
		if err != nil {
			return err
		}
		if found.Truck, err = h.truck(tx, found); err != nil {
			return err
		}
		if found.Consignments, err = h.consignments(tx, found); err != nil {
			return err
		}
		resp = found
		return nil
	})
	if err != nil {
		return AllocationResponse{}, err
	}
	return resp, nil
}

func (h GetAllocationQueryHandler) allocation(tx *gorm.DB, query GetAllocationQuery) (AllocationResponse, error) {
	rows, err := tx.Raw(`
		SELECT `+allocationColumns+`
		FROM allocations a
		WHERE a.id = ?
	`, query.AllocationID().Bytes()).Rows()
	if err != nil {
		return AllocationResponse{}, errs.NewStoreError("get allocation", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return AllocationResponse{}, errs.NewStoreError("get allocation", err)
		}
		return AllocationResponse{}, errs.NewObjectNotFoundError("allocation", query.AllocationID().String())
	}

	resp, err := scanAllocation(rows)
	if err != nil {
		return AllocationResponse{}, errs.NewStoreError("get allocation", err)
	}
	return resp, nil
}

// truck is nil when the truck row is gone; allocations keep their history.
func (h GetAllocationQueryHandler) truck(tx *gorm.DB, a AllocationResponse) (*TruckResponse, error) {
	rows, err := tx.Raw(`
		SELECT `+truckColumns+`
		FROM trucks t
		WHERE t.id = ?
	`, a.TruckID.Bytes()).Rows()
	if err != nil {
		return nil, errs.NewStoreError("get allocation truck", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, errs.NewStoreError("get allocation truck", err)
		}
		return nil, nil
	}

	t, err := scanTruck(rows)
	if err != nil {
		return nil, errs.NewStoreError("get allocation truck", err)
	}
	return &t, nil
}

func (h GetAllocationQueryHandler) consignments(tx *gorm.DB, a AllocationResponse) ([]ConsignmentResponse, error) {
	rows, err := tx.Raw(`
		SELECT `+consignmentColumns+`
		FROM allocation_consignments ac
		JOIN consignments c ON c.id = ac.consignment_id
		WHERE ac.allocation_id = ?
		ORDER BY ac.position
	`, a.ID.Bytes()).Rows()
	if err != nil {
		return nil, errs.NewStoreError("get allocation consignments", err)
	}
	defer rows.Close()

	consignments := make([]ConsignmentResponse, 0, a.ConsignmentCount)
	for rows.Next() {
		c, scanErr := scanConsignment(rows)
		if scanErr != nil {
			return nil, errs.NewStoreError("get allocation consignments", scanErr)
		}
		consignments = append(consignments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewStoreError("get allocation consignments", err)
	}
	return consignments, nil
}
