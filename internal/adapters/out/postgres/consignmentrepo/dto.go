// Package consignmentrepo persists consignments with GORM.
package consignmentrepo

import (
	"time"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ConsignmentDTO is the row stored in the consignments table. The route
// index serves the backlog scan.
type ConsignmentDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber    string     `gorm:"type:varchar(16);not null;uniqueIndex:consignments_tracking_number_key"`
	SourceOffice      uuid.UUID  `gorm:"type:uuid;not null;index:consignments_route_status_idx,priority:1"`
	DestinationOffice uuid.UUID  `gorm:"type:uuid;not null;index:consignments_route_status_idx,priority:2"`
	Status            int        `gorm:"type:smallint;not null;index:consignments_route_status_idx,priority:3"`
	Volume            float64    `gorm:"type:double precision;not null"`
	Charge            float64    `gorm:"type:numeric(14,2);not null"`
	SenderName        string     `gorm:"type:varchar(255);not null"`
	SenderContact     string     `gorm:"type:varchar(255);not null"`
	ReceiverName      string     `gorm:"type:varchar(255);not null"`
	ReceiverContact   string     `gorm:"type:varchar(255);not null"`
	TruckID           *uuid.UUID `gorm:"type:uuid;index"`
	ReceivedAt        time.Time  `gorm:"type:timestamptz;not null"`
	DispatchedAt      *time.Time `gorm:"type:timestamptz"`
	DeliveredAt       *time.Time `gorm:"type:timestamptz"`
	Version           int        `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "consignment_dtos".
func (ConsignmentDTO) TableName() string {
	return "consignments"
}

func fromDomain(c *consignment.Consignment) ConsignmentDTO {
	var truckID *uuid.UUID
	if c.Truck() != nil {
		raw := c.Truck().Bytes()
		truckID = &raw
	}

	return ConsignmentDTO{
		ID:                c.ID().Bytes(),
		TrackingNumber:    c.TrackingNumber().String(),
		SourceOffice:      c.Route().Source().Bytes(),
		DestinationOffice: c.Route().Destination().Bytes(),
		Status:            int(c.Status()),
		Volume:            c.Volume().Float64(),
		Charge:            c.Charge().Float64(),
		SenderName:        c.Sender().Name(),
		SenderContact:     c.Sender().Contact(),
		ReceiverName:      c.Receiver().Name(),
		ReceiverContact:   c.Receiver().Contact(),
		TruckID:           truckID,
		ReceivedAt:        c.ReceivedAt().UTC(),
		DispatchedAt:      utc(c.DispatchedAt()),
		DeliveredAt:       utc(c.DeliveredAt()),
		Version:           c.Version(),
	}
}

// toDomain rebuilds a consignment from its row.
func toDomain(dto ConsignmentDTO) (*consignment.Consignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tracking, err := consignment.NewTrackingNumber(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}
	route, err := routeFromRow(dto.SourceOffice, dto.DestinationOffice)
	if err != nil {
		return nil, err
	}
	volume, err := kernel.NewVolume(dto.Volume)
	if err != nil {
		return nil, err
	}
	charge, err := kernel.NewMoney(dto.Charge)
	if err != nil {
		return nil, err
	}
	sender, err := consignment.NewParty("sender", dto.SenderName, dto.SenderContact)
	if err != nil {
		return nil, err
	}
	receiver, err := consignment.NewParty("receiver", dto.ReceiverName, dto.ReceiverContact)
	if err != nil {
		return nil, err
	}

	var truckID *kernel.UUID
	if dto.TruckID != nil {
		tID, truckErr := kernel.UUIDFromBytes((*dto.TruckID)[:])
		if truckErr != nil {
			return nil, truckErr
		}
		truckID = &tID
	}

	return consignment.RestoreConsignment(
		id, tracking, route, volume, charge, sender, receiver,
		consignment.Status(dto.Status), truckID,
		dto.ReceivedAt.UTC(), utc(dto.DispatchedAt), utc(dto.DeliveredAt),
		dto.Version,
	)
}

func routeFromRow(source, destination uuid.UUID) (kernel.Route, error) {
	src, err := kernel.UUIDFromBytes(source[:])
	if err != nil {
		return kernel.Route{}, err
	}
	dst, err := kernel.UUIDFromBytes(destination[:])
	if err != nil {
		return kernel.Route{}, err
	}
	return kernel.NewRoute(src, dst)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
