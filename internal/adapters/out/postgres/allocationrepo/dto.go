// Package allocationrepo persists truck allocations with GORM. The
// consignment set of an allocation lives in allocation_consignments.
package allocationrepo

import (
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AllocationDTO is the row stored in the allocations table.
type AllocationDTO struct {
	ID                uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	TruckID           uuid.UUID                  `gorm:"type:uuid;not null;index"`
	SourceOffice      uuid.UUID                  `gorm:"type:uuid;not null;index:allocations_route_idx,priority:1"`
	DestinationOffice uuid.UUID                  `gorm:"type:uuid;not null;index:allocations_route_idx,priority:2"`
	TotalVolume       float64                    `gorm:"type:double precision;not null"`
	Status            int                        `gorm:"type:smallint;not null;index"`
	StartedAt         time.Time                  `gorm:"type:timestamptz;not null;index"`
	EndedAt           *time.Time                 `gorm:"type:timestamptz"`
	Notes             string                     `gorm:"type:text;not null;default:''"`
	IdleHours         float64                    `gorm:"type:double precision;not null;default:0"`
	WaitingDays       float64                    `gorm:"type:double precision;not null;default:0"`
	Version           int                        `gorm:"not null;default:0"`
	Consignments      []AllocationConsignmentDTO `gorm:"foreignKey:AllocationID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default "allocation_dtos".
func (AllocationDTO) TableName() string {
	return "allocations"
}

// AllocationConsignmentDTO links one consignment to one allocation. Position
// keeps the order the consignments were allocated in.
type AllocationConsignmentDTO struct {
	AllocationID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConsignmentID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position      int       `gorm:"type:int;not null"`
}

// TableName overrides GORM's default naming.
func (AllocationConsignmentDTO) TableName() string {
	return "allocation_consignments"
}

func fromDomain(a *allocation.Allocation) AllocationDTO {
	allocationID := a.ID().Bytes()
	ids := a.Consignments()
	links := make([]AllocationConsignmentDTO, 0, len(ids))
	for i, id := range ids {
		links = append(links, AllocationConsignmentDTO{
			AllocationID:  allocationID,
			ConsignmentID: id.Bytes(),
			Position:      i,
		})
	}

	var endedAt *time.Time
	if a.EndedAt() != nil {
		v := a.EndedAt().UTC()
		endedAt = &v
	}

	details := a.Details()
	return AllocationDTO{
		ID:                allocationID,
		TruckID:           a.Truck().Bytes(),
		SourceOffice:      a.Route().Source().Bytes(),
		DestinationOffice: a.Route().Destination().Bytes(),
		TotalVolume:       a.TotalVolume().Float64(),
		Status:            int(a.Status()),
		StartedAt:         a.StartedAt().UTC(),
		EndedAt:           endedAt,
		Notes:             details.Notes,
		IdleHours:         details.IdleHours,
		WaitingDays:       details.WaitingDays,
		Version:           a.Version(),
		Consignments:      links,
	}
}

// toDomain rebuilds an allocation from its row and preloaded links.
func toDomain(dto AllocationDTO) (*allocation.Allocation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	truckID, err := kernel.UUIDFromBytes(dto.TruckID[:])
	if err != nil {
		return nil, err
	}
	source, err := kernel.UUIDFromBytes(dto.SourceOffice[:])
	if err != nil {
		return nil, err
	}
	destination, err := kernel.UUIDFromBytes(dto.DestinationOffice[:])
	if err != nil {
		return nil, err
	}
	route, err := kernel.NewRoute(source, destination)
	if err != nil {
		return nil, err
	}
	totalVolume, err := kernel.NewVolume(dto.TotalVolume)
	if err != nil {
		return nil, err
	}

	consignments := make([]kernel.UUID, len(dto.Consignments))
	for _, link := range dto.Consignments {
		if link.Position < 0 || link.Position >= len(consignments) {
			return nil, errInvalidPosition(dto.ID, link.Position)
		}
		cID, linkErr := kernel.UUIDFromBytes(link.ConsignmentID[:])
		if linkErr != nil {
			return nil, linkErr
		}
		consignments[link.Position] = cID
	}

	var endedAt *time.Time
	if dto.EndedAt != nil {
		v := dto.EndedAt.UTC()
		endedAt = &v
	}

	return allocation.RestoreAllocation(
		id,
		truckID,
		route,
		consignments,
		totalVolume,
		allocation.Status(dto.Status),
		dto.StartedAt.UTC(),
		endedAt,
		allocation.Details{Notes: dto.Notes, IdleHours: dto.IdleHours, WaitingDays: dto.WaitingDays},
		dto.Version,
	)
}
