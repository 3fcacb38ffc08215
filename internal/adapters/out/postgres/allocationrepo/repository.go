package allocationrepo

import (
	"context"
	"errors"
	"fmt"

	"freight/internal/adapters/out/postgres/pgerr"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entity = "allocation"

// GormAllocationRepository implements ports.AllocationRepository using GORM.
type GormAllocationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAllocationRepository creates an allocation repository bound to db.
func NewGormAllocationRepository(db *gorm.DB, tracker aggregateTracker) *GormAllocationRepository {
	return &GormAllocationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the allocation and its consignment links.
func (r *GormAllocationRepository) Add(ctx context.Context, aggregate *allocation.Allocation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Map(entity, "allocation.add", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status, end date and details if the stored version still
// matches. Links are left untouched.
func (r *GormAllocationRepository) Update(ctx context.Context, aggregate *allocation.Allocation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&AllocationDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":       dto.Status,
			"ended_at":     dto.EndedAt,
			"notes":        dto.Notes,
			"idle_hours":   dto.IdleHours,
			"waiting_days": dto.WaitingDays,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return pgerr.Map(entity, "allocation.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes the allocation and its links if the stored version still
// matches.
func (r *GormAllocationRepository) Delete(ctx context.Context, aggregate *allocation.Allocation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().Bytes()
	db := r.db.WithContext(ctx)
	if err := db.Where("allocation_id = ?", id).Delete(&AllocationConsignmentDTO{}).Error; err != nil {
		return pgerr.Map(entity, "allocation.delete", err)
	}

	result := db.Where("id = ? AND version = ?", id, aggregate.Version()).Delete(&AllocationDTO{})
	if result.Error != nil {
		return pgerr.Map(entity, "allocation.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an allocation by id.
func (r *GormAllocationRepository) Get(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves an allocation and locks its row.
func (r *GormAllocationRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// List returns the allocations matching filter, newest start first.
func (r *GormAllocationRepository) List(
	ctx context.Context,
	filter ports.AllocationFilter,
) ([]*allocation.Allocation, error) {
	query := r.db.WithContext(ctx).Preload("Consignments")
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}
	if filter.Source != nil {
		query = query.Where("source_office = ?", filter.Source.Bytes())
	}
	if filter.Destination != nil {
		query = query.Where("destination_office = ?", filter.Destination.Bytes())
	}
	if filter.Truck != nil {
		query = query.Where("truck_id = ?", filter.Truck.Bytes())
	}

	var dtos []AllocationDTO
	if err := query.Order("started_at DESC, id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Map(entity, "allocation.list", err)
	}

	allocations := make([]*allocation.Allocation, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, nil
}

func (r *GormAllocationRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*allocation.Allocation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AllocationDTO
	if err := db.WithContext(ctx).Preload("Consignments").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		return nil, pgerr.Map(entity, "allocation.get", err)
	}

	return toDomain(dto)
}

func (r *GormAllocationRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&AllocationDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return pgerr.Map(entity, "allocation.update", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return errs.NewConcurrencyConflictError(entity, id.String())
}

func errInvalidPosition(id uuid.UUID, position int) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"consignments",
		fmt.Errorf("allocation %s has a link at position %d", id, position),
	)
}
