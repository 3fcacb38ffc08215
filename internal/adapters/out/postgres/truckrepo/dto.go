// Package truckrepo persists truck aggregates with GORM.
package truckrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"

	"github.com/google/uuid"
)

// TruckDTO is the row stored in the trucks table.
type TruckDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RegistrationNumber string    `gorm:"type:varchar(32);not null;uniqueIndex:trucks_registration_number_key"`
	Model              string    `gorm:"type:varchar(255);not null"`
	Capacity           float64   `gorm:"type:double precision;not null"`
	CurrentOffice      uuid.UUID `gorm:"type:uuid;not null;index:trucks_office_status_idx,priority:1"`
	Status             int       `gorm:"type:smallint;not null;index:trucks_office_status_idx,priority:2"`
	LastMaintenance    time.Time `gorm:"type:timestamptz;not null"`
	Version            int       `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "truck_dtos".
func (TruckDTO) TableName() string {
	return "trucks"
}

func fromDomain(t *truck.Truck) TruckDTO {
	return TruckDTO{
		ID:                 t.ID().Bytes(),
		RegistrationNumber: t.Registration(),
		Model:              t.Model(),
		Capacity:           t.Capacity().Float64(),
		CurrentOffice:      t.CurrentOffice().Bytes(),
		Status:             int(t.Status()),
		LastMaintenance:    t.LastMaintenance().UTC(),
		Version:            t.Version(),
	}
}

func toDomain(dto TruckDTO) (*truck.Truck, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	office, err := kernel.UUIDFromBytes(dto.CurrentOffice[:])
	if err != nil {
		return nil, err
	}
	capacity, err := kernel.NewVolume(dto.Capacity)
	if err != nil {
		return nil, err
	}

	return truck.RestoreTruck(
		id,
		dto.RegistrationNumber,
		dto.Model,
		capacity,
		office,
		truck.Status(dto.Status),
		dto.LastMaintenance.UTC(),
		dto.Version,
	)
}
