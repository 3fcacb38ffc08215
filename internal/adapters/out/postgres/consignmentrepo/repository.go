package consignmentrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/pgerr"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	entity                   = "consignment"
	trackingNumberConstraint = "consignments_tracking_number_key"
)

// GormConsignmentRepository implements ports.ConsignmentRepository using GORM.
type GormConsignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormConsignmentRepository creates a consignment repository bound to db.
func NewGormConsignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormConsignmentRepository {
	return &GormConsignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a consignment accepted at intake.
func (r *GormConsignmentRepository) Add(ctx context.Context, aggregate *consignment.Consignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	// Inside a unit of work the nested transaction is a savepoint, so a
	// collision rolls back only this insert.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if err != nil {
		if pgerr.IsUniqueViolation(err, trackingNumberConstraint) {
			return errs.NewConcurrencyConflictErrorWithCause(entity, dto.TrackingNumber, ports.ErrTrackingNumberTaken)
		}
		return pgerr.Map(entity, "consignment.add", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the lifecycle columns if the stored version still matches.
func (r *GormConsignmentRepository) Update(ctx context.Context, aggregate *consignment.Consignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ConsignmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":        dto.Status,
			"truck_id":      dto.TruckID,
			"dispatched_at": dto.DispatchedAt,
			"delivered_at":  dto.DeliveredAt,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return pgerr.Map(entity, "consignment.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a consignment by id.
func (r *GormConsignmentRepository) Get(ctx context.Context, id kernel.UUID) (*consignment.Consignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ConsignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		return nil, pgerr.Map(entity, "consignment.get", err)
	}
	return toDomain(dto)
}

// GetByTrackingNumber retrieves a consignment by its public code.
func (r *GormConsignmentRepository) GetByTrackingNumber(
	ctx context.Context,
	number consignment.TrackingNumber,
) (*consignment.Consignment, error) {
	if number.IsZero() {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	var dto ConsignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_number = ?", number.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(entity, number.String())
		}
		return nil, pgerr.Map(entity, "consignment.get", err)
	}
	return toDomain(dto)
}

// GetManyForUpdate locks the rows in id order, so concurrent callers never
// wait on each other in a cycle, and returns them in the order of ids.
func (r *GormConsignmentRepository) GetManyForUpdate(
	ctx context.Context,
	ids []kernel.UUID,
) ([]*consignment.Consignment, error) {
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		keys = append(keys, id.Bytes())
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var dtos []ConsignmentDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", keys).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Map(entity, "consignment.lock", err)
	}

	byID := make(map[uuid.UUID]ConsignmentDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	consignments := make([]*consignment.Consignment, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		consignments = append(consignments, c)
	}
	return consignments, nil
}

// GetBacklog locks and returns the unclaimed Received consignments of route,
// oldest first.
func (r *GormConsignmentRepository) GetBacklog(
	ctx context.Context,
	route kernel.Route,
) ([]*consignment.Consignment, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	var dtos []ConsignmentDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"source_office = ? AND destination_office = ? AND status = ? AND truck_id IS NULL",
			route.Source().Bytes(), route.Destination().Bytes(), int(consignment.Received),
		).
		Order("received_at, id").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Map(entity, "consignment.backlog", err)
	}

	consignments := make([]*consignment.Consignment, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		consignments = append(consignments, c)
	}
	return consignments, nil
}

func (r *GormConsignmentRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ConsignmentDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return pgerr.Map(entity, "consignment.update", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return errs.NewConcurrencyConflictError(entity, id.String())
}
