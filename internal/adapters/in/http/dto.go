package http

import (
	"time"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Party is a sender or receiver of a consignment.
type Party struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Contact string `json:"contact" validate:"required,max=255"`
}

// NewConsignment is the body of POST /api/v1/consignments.
type NewConsignment struct {
	SourceOffice      string  `json:"sourceOffice"      validate:"required,uuid"`
	DestinationOffice string  `json:"destinationOffice" validate:"required,uuid,nefield=SourceOffice"`
	Volume            float64 `json:"volume"            validate:"required,gt=0"`
	Sender            Party   `json:"sender"            validate:"required"`
	Receiver          Party   `json:"receiver"          validate:"required"`
}

// RouteParams selects a route, in the query string for GET and in the body
// for POST.
type RouteParams struct {
	SourceOffice      string `json:"sourceOffice"      query:"source"      validate:"required,uuid"`
	DestinationOffice string `json:"destinationOffice" query:"destination" validate:"required,uuid"`
}

// NewTruck is the body of POST /api/v1/trucks.
type NewTruck struct {
	RegistrationNumber string  `json:"registrationNumber" validate:"required,max=32"`
	Model              string  `json:"model"              validate:"required,max=255"`
	Capacity           float64 `json:"capacity"           validate:"required,gt=0"`
	CurrentOffice      string  `json:"currentOffice"      validate:"required,uuid"`
}

// TruckStatusChange is the body of PUT /api/v1/trucks/:id/status.
type TruckStatusChange struct {
	ID     string `json:"-"      param:"id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=Available Maintenance OutOfService"`
}

// TruckFilter holds the query parameters of GET /api/v1/trucks.
type TruckFilter struct {
	Office string `query:"office" validate:"omitempty,uuid"`
	Status string `query:"status" validate:"omitempty,oneof=Available Loading InTransit Maintenance OutOfService"`
}

// NewAllocation is the body of POST /api/v1/allocations.
type NewAllocation struct {
	TruckID           string   `json:"truckId"           validate:"required,uuid"`
	SourceOffice      string   `json:"sourceOffice"      validate:"required,uuid"`
	DestinationOffice string   `json:"destinationOffice" validate:"required,uuid"`
	ConsignmentIDs    []string `json:"consignmentIds"    validate:"required,min=1,unique,dive,uuid"`
	Notes             string   `json:"notes"             validate:"max=2000"`
	IdleTime          float64  `json:"idleTime"          validate:"gte=0"`
	WaitingTime       float64  `json:"waitingTime"       validate:"gte=0"`
}

// AllocationPatch is the body of PATCH /api/v1/allocations/:id. A status
// change and a details edit may be sent together; omitted details keep their
// stored value.
type AllocationPatch struct {
	ID          string   `json:"-"           param:"id" validate:"required,uuid"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=InProgress Completed Cancelled"`
	Notes       *string  `json:"notes"       validate:"omitempty,max=2000"`
	IdleTime    *float64 `json:"idleTime"    validate:"omitempty,gte=0"`
	WaitingTime *float64 `json:"waitingTime" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the patch changes nothing.
func (p AllocationPatch) IsEmpty() bool {
	return p.Status == nil && !p.HasDetails()
}

// HasDetails reports whether any operator detail is being edited.
func (p AllocationPatch) HasDetails() bool {
	return p.Notes != nil || p.IdleTime != nil || p.WaitingTime != nil
}

// AllocationFilter holds the query parameters of GET /api/v1/allocations.
type AllocationFilter struct {
	Status      string `query:"status"      validate:"omitempty,oneof=Planned InProgress Completed Cancelled"`
	Source      string `query:"source"      validate:"omitempty,uuid"`
	Destination string `query:"destination" validate:"omitempty,uuid"`
	Truck       string `query:"truck"       validate:"omitempty,uuid"`
}

// Consignment is the JSON form of a consignment.
type Consignment struct {
	ID                string     `json:"id"`
	TrackingNumber    string     `json:"trackingNumber"`
	SourceOffice      string     `json:"sourceOffice"`
	DestinationOffice string     `json:"destinationOffice"`
	Volume            float64    `json:"volume"`
	Charge            float64    `json:"charge"`
	Sender            PartyView  `json:"sender"`
	Receiver          PartyView  `json:"receiver"`
	Status            string     `json:"status"`
	Truck             *string    `json:"truck"`
	ReceivedAt        time.Time  `json:"receivedAt"`
	DispatchDate      *time.Time `json:"dispatchDate,omitempty"`
	DeliveryDate      *time.Time `json:"deliveryDate,omitempty"`
}

// PartyView is the JSON form of a sender or receiver.
type PartyView struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Truck is the JSON form of a truck.
type Truck struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registrationNumber"`
	Model              string    `json:"model"`
	Capacity           float64   `json:"capacity"`
	CurrentOffice      string    `json:"currentOffice"`
	Status             string    `json:"status"`
	LastMaintenance    time.Time `json:"lastMaintenance"`
}

// Allocation is the JSON form of a truck allocation. Truck and Consignments
// are present on single-allocation responses only.
type Allocation struct {
	ID                string        `json:"id"`
	TruckID           string        `json:"truckId"`
	SourceOffice      string        `json:"sourceOffice"`
	DestinationOffice string        `json:"destinationOffice"`
	TotalVolume       float64       `json:"totalVolume"`
	Status            string        `json:"status"`
	StartDate         time.Time     `json:"startDate"`
	EndDate           *time.Time    `json:"endDate,omitempty"`
	Notes             string        `json:"notes"`
	IdleTime          float64       `json:"idleTime"`
	WaitingTime       float64       `json:"waitingTime"`
	ConsignmentIDs    []string      `json:"consignmentIds,omitempty"`
	ConsignmentCount  int           `json:"consignmentCount"`
	Truck             *Truck        `json:"truck,omitempty"`
	Consignments      []Consignment `json:"consignments,omitempty"`
}

// IntakeResult is the body of a successful consignment intake.
type IntakeResult struct {
	Consignment Consignment   `json:"consignment"`
	Decision    RouteDecision `json:"decision"`
}

// RouteDecision reports what the allocation decision did for a route.
type RouteDecision struct {
	Outcome       string      `json:"outcome"`
	BacklogVolume float64     `json:"backlogVolume"`
	Allocation    *Allocation `json:"allocation,omitempty"`
}

// Backlog is the body of GET /api/v1/routes/backlog.
type Backlog struct {
	SourceOffice      string        `json:"sourceOffice"`
	DestinationOffice string        `json:"destinationOffice"`
	Volume            float64       `json:"volume"`
	Trigger           float64       `json:"trigger"`
	TriggerReached    bool          `json:"triggerReached"`
	Consignments      []Consignment `json:"consignments"`
}
