// Package queries contains read-only operations of the allocation engine.
// Handlers read with plain SQL and return flat read models, never aggregates.
package queries

import (
	"database/sql"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"

	"github.com/google/uuid"
)

// ConsignmentResponse is the read model of a consignment.
type ConsignmentResponse struct {
	ID              kernel.UUID
	TrackingNumber  string
	Source          kernel.UUID
	Destination     kernel.UUID
	Volume          float64
	Charge          float64
	SenderName      string
	SenderContact   string
	ReceiverName    string
	ReceiverContact string
	Status          string
	TruckID         *kernel.UUID
	ReceivedAt      time.Time
	DispatchedAt    *time.Time
	DeliveredAt     *time.Time
}

// TruckResponse is the read model of a truck.
type TruckResponse struct {
	ID                 kernel.UUID
	RegistrationNumber string
	Model              string
	Capacity           float64
	CurrentOffice      kernel.UUID
	Status             string
	LastMaintenance    time.Time
}

// AllocationResponse is the read model of a truck allocation. Truck and
// Consignments are populated by GetAllocation only; listings carry
// ConsignmentCount instead.
type AllocationResponse struct {
	ID               kernel.UUID
	TruckID          kernel.UUID
	Source           kernel.UUID
	Destination      kernel.UUID
	TotalVolume      float64
	Status           string
	StartedAt        time.Time
	EndedAt          *time.Time
	Notes            string
	IdleHours        float64
	WaitingDays      float64
	ConsignmentCount int

	Truck        *TruckResponse
	Consignments []ConsignmentResponse
}

const consignmentColumns = `
	c.id,
	c.tracking_number,
	c.source_office,
	c.destination_office,
	c.volume,
	c.charge,
	c.sender_name,
	c.sender_contact,
	c.receiver_name,
	c.receiver_contact,
	c.status,
	c.truck_id,
	c.received_at,
	c.dispatched_at,
	c.delivered_at`

const truckColumns = `
	t.id,
	t.registration_number,
	t.model,
	t.capacity,
	t.current_office,
	t.status,
	t.last_maintenance`

const allocationColumns = `
	a.id,
	a.truck_id,
	a.source_office,
	a.destination_office,
	a.total_volume,
	a.status,
	a.started_at,
	a.ended_at,
	a.notes,
	a.idle_hours,
	a.waiting_days,
	(SELECT COUNT(*) FROM allocation_consignments ac WHERE ac.allocation_id = a.id)`

func scanConsignment(rows *sql.Rows) (ConsignmentResponse, error) {
	var (
		resp                      ConsignmentResponse
		id, source, destination   uuid.UUID
		truckID                   uuid.NullUUID
		status                    int
		dispatchedAt, deliveredAt *time.Time
		err                       error
	)

	if err = rows.Scan(
		&id,
		&resp.TrackingNumber,
		&source,
		&destination,
		&resp.Volume,
		&resp.Charge,
		&resp.SenderName,
		&resp.SenderContact,
		&resp.ReceiverName,
		&resp.ReceiverContact,
		&status,
		&truckID,
		&resp.ReceivedAt,
		&dispatchedAt,
		&deliveredAt,
	); err != nil {
		return ConsignmentResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return ConsignmentResponse{}, err
	}
	if resp.Source, err = kernel.UUIDFromBytes(source[:]); err != nil {
		return ConsignmentResponse{}, err
	}
	if resp.Destination, err = kernel.UUIDFromBytes(destination[:]); err != nil {
		return ConsignmentResponse{}, err
	}
	if truckID.Valid {
		t, truckErr := kernel.UUIDFromBytes(truckID.UUID[:])
		if truckErr != nil {
			return ConsignmentResponse{}, truckErr
		}
		resp.TruckID = &t
	}

	resp.Status = consignment.Status(status).String()
	resp.ReceivedAt = resp.ReceivedAt.UTC()
	resp.DispatchedAt = utc(dispatchedAt)
	resp.DeliveredAt = utc(deliveredAt)
	return resp, nil
}

func scanTruck(rows *sql.Rows) (TruckResponse, error) {
	var (
		resp       TruckResponse
		id, office uuid.UUID
		status     int
		err        error
	)

	if err = rows.Scan(
		&id,
		&resp.RegistrationNumber,
		&resp.Model,
		&resp.Capacity,
		&office,
		&status,
		&resp.LastMaintenance,
	); err != nil {
		return TruckResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return TruckResponse{}, err
	}
	if resp.CurrentOffice, err = kernel.UUIDFromBytes(office[:]); err != nil {
		return TruckResponse{}, err
	}
	resp.Status = truck.Status(status).String()
	resp.LastMaintenance = resp.LastMaintenance.UTC()
	return resp, nil
}

func scanAllocation(rows *sql.Rows) (AllocationResponse, error) {
	var (
		resp                             AllocationResponse
		id, truckID, source, destination uuid.UUID
		status                           int
		endedAt                          *time.Time
		err                              error
	)

	if err = rows.Scan(
		&id,
		&truckID,
		&source,
		&destination,
		&resp.TotalVolume,
		&status,
		&resp.StartedAt,
		&endedAt,
		&resp.Notes,
		&resp.IdleHours,
		&resp.WaitingDays,
		&resp.ConsignmentCount,
	); err != nil {
		return AllocationResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return AllocationResponse{}, err
	}
	if resp.TruckID, err = kernel.UUIDFromBytes(truckID[:]); err != nil {
		return AllocationResponse{}, err
	}
	if resp.Source, err = kernel.UUIDFromBytes(source[:]); err != nil {
		return AllocationResponse{}, err
	}
	if resp.Destination, err = kernel.UUIDFromBytes(destination[:]); err != nil {
		return AllocationResponse{}, err
	}

	resp.Status = allocation.Status(status).String()
	resp.StartedAt = resp.StartedAt.UTC()
	resp.EndedAt = utc(endedAt)
	return resp, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
