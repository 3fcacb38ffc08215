package consignment

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MinVolume is the smallest consignment accepted at intake, in cubic metres.
const MinVolume = 0.1

// ErrConsignmentIsNotConstructed is returned when a zero value Consignment is used.
var ErrConsignmentIsNotConstructed = errors.New("Consignment must be created via NewConsignment constructor")

// Consignment is a parcel lot accepted at a source office for delivery to a
// destination office.
//
// Invariants:
//   - route, volume and charge never change after intake
//   - truck is set exactly while status is Waiting, InTransit or Delivered
//   - dispatchedAt is set exactly while InTransit or Delivered, deliveredAt
//     exactly while Delivered; both are stamped once by the allocation engine
type Consignment struct {
	id           kernel.UUID
	tracking     TrackingNumber
	route        kernel.Route
	volume       kernel.Volume
	charge       kernel.Money
	sender       Party
	receiver     Party
	status       Status
	truckID      *kernel.UUID
	receivedAt   time.Time
	dispatchedAt *time.Time
	deliveredAt  *time.Time
	version      int

	guard guard.ConstructorGuard
}

// NewConsignment accepts a consignment into the Received backlog of its route.
func NewConsignment(
	id kernel.UUID,
	tracking TrackingNumber,
	route kernel.Route,
	volume kernel.Volume,
	charge kernel.Money,
	sender Party,
	receiver Party,
	receivedAt time.Time,
) (*Consignment, error) {
	return RestoreConsignment(
		id, tracking, route, volume, charge, sender, receiver,
		Received, nil, receivedAt, nil, nil, 0,
	)
}

// RestoreConsignment rebuilds a consignment from persisted state and re-checks
// its invariants.
func RestoreConsignment(
	id kernel.UUID,
	tracking TrackingNumber,
	route kernel.Route,
	volume kernel.Volume,
	charge kernel.Money,
	sender Party,
	receiver Party,
	status Status,
	truckID *kernel.UUID,
	receivedAt time.Time,
	dispatchedAt *time.Time,
	deliveredAt *time.Time,
	version int,
) (*Consignment, error) {
	c := &Consignment{
		charge:   charge,
		sender:   sender,
		receiver: receiver,
		version:  version,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setTracking(tracking),
		c.setRoute(route),
		c.setVolume(volume),
		c.setReceivedAt(receivedAt),
		c.setStatus(status, truckID),
		c.setDates(status, dispatchedAt, deliveredAt),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the consignment was built by a constructor.
func (c *Consignment) Validate() error {
	if c == nil {
		return ErrConsignmentIsNotConstructed
	}
	return c.guard.Validate(ErrConsignmentIsNotConstructed)
}

func (c *Consignment) ID() kernel.UUID                { return c.id }
func (c *Consignment) TrackingNumber() TrackingNumber { return c.tracking }
func (c *Consignment) Route() kernel.Route            { return c.route }
func (c *Consignment) Volume() kernel.Volume          { return c.volume }
func (c *Consignment) Charge() kernel.Money           { return c.charge }
func (c *Consignment) Sender() Party                  { return c.sender }
func (c *Consignment) Receiver() Party                { return c.receiver }
func (c *Consignment) Status() Status                 { return c.status }
func (c *Consignment) ReceivedAt() time.Time          { return c.receivedAt }
func (c *Consignment) DispatchedAt() *time.Time       { return c.dispatchedAt }
func (c *Consignment) DeliveredAt() *time.Time        { return c.deliveredAt }
func (c *Consignment) Version() int                   { return c.version }

// Truck returns the truck carrying the consignment, or nil while unclaimed.
func (c *Consignment) Truck() *kernel.UUID {
	return c.truckID
}

// IsBacklog reports whether the consignment counts towards its route's
// unassigned volume.
func (c *Consignment) IsBacklog() bool {
	return c.status == Received && c.truckID == nil
}

// ValidateClaim checks, without side effects, that the consignment can be
// bound to a new allocation on route.
func (c *Consignment) ValidateClaim(route kernel.Route) error {
	if !c.route.IsEqual(route) {
		return errs.NewValueIsInvalidErrorWithCause(
			"consignments",
			fmt.Errorf("consignment %s travels %s, not %s", c.id, c.route, route),
		)
	}
	if c.truckID != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"consignments",
			fmt.Errorf("consignment %s is already claimed by truck %s", c.id, c.truckID),
		)
	}
	if _, err := c.status.Claim(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"consignments",
			fmt.Errorf("consignment %s is %s and cannot be claimed", c.id, c.status),
		)
	}
	return nil
}

// Claim binds the consignment to truckID.
func (c *Consignment) Claim(route kernel.Route, truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return err
	}
	if err := c.ValidateClaim(route); err != nil {
		return err
	}
	c.status = Waiting
	c.truckID = &truckID
	return nil
}

// Release returns a waiting consignment to the backlog of its route.
func (c *Consignment) Release() error {
	next, err := c.status.Release()
	if err != nil {
		return c.transitionError(err)
	}
	c.status = next
	c.truckID = nil
	return nil
}

// Dispatch marks the consignment as on the road.
func (c *Consignment) Dispatch(now time.Time) error {
	next, err := c.status.Dispatch()
	if err != nil {
		return c.transitionError(err)
	}
	c.status = next
	c.dispatchedAt = &now
	return nil
}

// Deliver marks the consignment as handed over at its destination.
func (c *Consignment) Deliver(now time.Time) error {
	next, err := c.status.Deliver()
	if err != nil {
		return c.transitionError(err)
	}
	c.status = next
	c.deliveredAt = &now
	return nil
}

// Cancel withdraws a consignment that no allocation has claimed.
func (c *Consignment) Cancel() error {
	next, err := c.status.Cancel()
	if err != nil {
		return c.transitionError(err)
	}
	c.status = next
	return nil
}

func (c *Consignment) transitionError(err error) error {
	var transitionErr *errs.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return errs.NewInvalidTransitionError("consignment", c.id.String(), transitionErr.From, transitionErr.To)
	}
	return err
}

func (c *Consignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Consignment) setTracking(tracking TrackingNumber) error {
	if tracking.IsZero() {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	c.tracking = tracking
	return nil
}

func (c *Consignment) setRoute(route kernel.Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	c.route = route
	return nil
}

func (c *Consignment) setVolume(volume kernel.Volume) error {
	if volume.Float64() < MinVolume {
		return errs.NewValueIsOutOfRangeError("volume", volume.Float64(), MinVolume, "unbounded")
	}
	c.volume = volume
	return nil
}

func (c *Consignment) setReceivedAt(receivedAt time.Time) error {
	if receivedAt.IsZero() {
		return errs.NewValueIsRequiredError("receivedDate")
	}
	c.receivedAt = receivedAt
	return nil
}

func (c *Consignment) setStatus(status Status, truckID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveTruck(truckID != nil); err != nil {
		return err
	}
	if truckID != nil {
		if err := truckID.Validate(); err != nil {
			return err
		}
	}
	c.status = status
	c.truckID = truckID
	return nil
}

func (c *Consignment) setDates(status Status, dispatchedAt, deliveredAt *time.Time) error {
	onRoad := status == InTransit || status == Delivered
	if (dispatchedAt != nil) != onRoad {
		return errs.NewValueIsInvalidErrorWithCause(
			"dispatchDate",
			fmt.Errorf("dispatch date is set exactly while %s or %s, status is %s", InTransit, Delivered, status),
		)
	}
	if (deliveredAt != nil) != (status == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"deliveryDate",
			fmt.Errorf("delivery date is set exactly while %s, status is %s", Delivered, status),
		)
	}
	c.dispatchedAt = dispatchedAt
	c.deliveredAt = deliveredAt
	return nil
}
