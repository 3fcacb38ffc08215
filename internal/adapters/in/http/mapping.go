package http

import (
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
)

func parseID(param, value string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(param, value string) (*kernel.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseID(param, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func consignmentFromDomain(c *consignment.Consignment) Consignment {
	return Consignment{
		ID:                c.ID().String(),
		TrackingNumber:    c.TrackingNumber().String(),
		SourceOffice:      c.Route().Source().String(),
		DestinationOffice: c.Route().Destination().String(),
		Volume:            c.Volume().Float64(),
		Charge:            c.Charge().Float64(),
		Sender:            PartyView{Name: c.Sender().Name(), Contact: c.Sender().Contact()},
		Receiver:          PartyView{Name: c.Receiver().Name(), Contact: c.Receiver().Contact()},
		Status:            c.Status().String(),
		Truck:             idString(c.Truck()),
		ReceivedAt:        c.ReceivedAt(),
		DispatchDate:      c.DispatchedAt(),
		DeliveryDate:      c.DeliveredAt(),
	}
}

func truckFromDomain(t *truck.Truck) Truck {
	return Truck{
		ID:                 t.ID().String(),
		RegistrationNumber: t.Registration(),
		Model:              t.Model(),
		Capacity:           t.Capacity().Float64(),
		CurrentOffice:      t.CurrentOffice().String(),
		Status:             t.Status().String(),
		LastMaintenance:    t.LastMaintenance(),
	}
}

func allocationFromDomain(a *allocation.Allocation) Allocation {
	ids := a.Consignments()
	consignmentIDs := make([]string, len(ids))
	for i, id := range ids {
		consignmentIDs[i] = id.String()
	}

	return Allocation{
		ID:                a.ID().String(),
		TruckID:           a.Truck().String(),
		SourceOffice:      a.Route().Source().String(),
		DestinationOffice: a.Route().Destination().String(),
		TotalVolume:       a.TotalVolume().Float64(),
		Status:            a.Status().String(),
		StartDate:         a.StartedAt(),
		EndDate:           a.EndedAt(),
		Notes:             a.Details().Notes,
		IdleTime:          a.Details().IdleHours,
		WaitingTime:       a.Details().WaitingDays,
		ConsignmentIDs:    consignmentIDs,
		ConsignmentCount:  len(ids),
	}
}

// decisionFromDomain populates the allocation with its truck and
// consignments when one was created.
func decisionFromDomain(d commands.RouteAllocation) RouteDecision {
	resp := RouteDecision{
		Outcome:       string(d.Outcome),
		BacklogVolume: d.BacklogVolume.Float64(),
	}
	if d.Allocation == nil {
		return resp
	}

	a := allocationFromDomain(d.Allocation)
	if d.Truck != nil {
		t := truckFromDomain(d.Truck)
		a.Truck = &t
	}
	a.Consignments = make([]Consignment, len(d.Consignments))
	for i, c := range d.Consignments {
		a.Consignments[i] = consignmentFromDomain(c)
	}
	resp.Allocation = &a
	return resp
}

func consignmentFromReadModel(c queries.ConsignmentResponse) Consignment {
	return Consignment{
		ID:                c.ID.String(),
		TrackingNumber:    c.TrackingNumber,
		SourceOffice:      c.Source.String(),
		DestinationOffice: c.Destination.String(),
		Volume:            c.Volume,
		Charge:            c.Charge,
		Sender:            PartyView{Name: c.SenderName, Contact: c.SenderContact},
		Receiver:          PartyView{Name: c.ReceiverName, Contact: c.ReceiverContact},
		Status:            c.Status,
		Truck:             idString(c.TruckID),
		ReceivedAt:        c.ReceivedAt,
		DispatchDate:      c.DispatchedAt,
		DeliveryDate:      c.DeliveredAt,
	}
}

func consignmentsFromReadModel(cs []queries.ConsignmentResponse) []Consignment {
	resp := make([]Consignment, len(cs))
	for i, c := range cs {
		resp[i] = consignmentFromReadModel(c)
	}
	return resp
}

func truckFromReadModel(t queries.TruckResponse) Truck {
	return Truck{
		ID:                 t.ID.String(),
		RegistrationNumber: t.RegistrationNumber,
		Model:              t.Model,
		Capacity:           t.Capacity,
		CurrentOffice:      t.CurrentOffice.String(),
		Status:             t.Status,
		LastMaintenance:    t.LastMaintenance,
	}
}

func allocationFromReadModel(a queries.AllocationResponse) Allocation {
	resp := Allocation{
		ID:                a.ID.String(),
		TruckID:           a.TruckID.String(),
		SourceOffice:      a.Source.String(),
		DestinationOffice: a.Destination.String(),
		TotalVolume:       a.TotalVolume,
		Status:            a.Status,
		StartDate:         a.StartedAt,
		EndDate:           a.EndedAt,
		Notes:             a.Notes,
		IdleTime:          a.IdleHours,
		WaitingTime:       a.WaitingDays,
		ConsignmentCount:  a.ConsignmentCount,
	}
	if a.Truck != nil {
		t := truckFromReadModel(*a.Truck)
		resp.Truck = &t
	}
	if a.Consignments != nil {
		resp.Consignments = consignmentsFromReadModel(a.Consignments)
		resp.ConsignmentIDs = make([]string, len(a.Consignments))
		for i, c := range a.Consignments {
			resp.ConsignmentIDs[i] = c.ID.String()
		}
	}
	return resp
}

func parseIDs(param string, values []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, len(values))
	for i, v := range values {
		id, err := parseID(param, v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
