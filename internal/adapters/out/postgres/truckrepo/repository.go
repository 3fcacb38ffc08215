package truckrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/pgerr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entity = "truck"

// GormTruckRepository implements ports.TruckRepository using GORM.
type GormTruckRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTruckRepository creates a truck repository bound to db, which is
// usually the transaction of a unit of work.
func NewGormTruckRepository(db *gorm.DB, tracker aggregateTracker) *GormTruckRepository {
	return &GormTruckRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new truck. A taken registration number is a ValueIsInvalidError.
func (r *GormTruckRepository) Add(ctx context.Context, aggregate *truck.Truck) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "") {
			return errs.NewValueIsInvalidErrorWithCause("registrationNumber", err)
		}
		return pgerr.Map(entity, "truck.add", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status, office and maintenance date if the stored version
// still matches.
func (r *GormTruckRepository) Update(ctx context.Context, aggregate *truck.Truck) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TruckDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"current_office":   dto.CurrentOffice,
			"status":           dto.Status,
			"last_maintenance": dto.LastMaintenance,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return pgerr.Map(entity, "truck.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a truck by id.
func (r *GormTruckRepository) Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a truck and locks its row until the transaction ends.
func (r *GormTruckRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetAvailableAt locks and returns the Available trucks at office, ordered by id.
func (r *GormTruckRepository) GetAvailableAt(ctx context.Context, office kernel.UUID) ([]*truck.Truck, error) {
	if err := office.Validate(); err != nil {
		return nil, err
	}

	var dtos []TruckDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("current_office = ? AND status = ?", office.Bytes(), int(truck.Available)).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Map(entity, "truck.available", err)
	}

	trucks := make([]*truck.Truck, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, nil
}

func (r *GormTruckRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*truck.Truck, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TruckDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		return nil, pgerr.Map(entity, "truck.get", err)
	}

	return toDomain(dto)
}

func (r *GormTruckRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TruckDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return pgerr.Map(entity, "truck.update", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return errs.NewConcurrencyConflictError(entity, id.String())
}
