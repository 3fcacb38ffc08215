package services_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newRoute(t *testing.T) kernel.Route {
	t.Helper()
	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return route
}

func newTruck(t *testing.T, id kernel.UUID, capacity float64, office kernel.UUID) *truck.Truck {
	t.Helper()
	tr, err := truck.NewTruck(id, "KA-01-"+id.String()[:4], "Eicher Pro", kernel.MustNewVolume(capacity), office, now)
	require.NoError(t, err)
	return tr
}

func newConsignment(t *testing.T, route kernel.Route, volume float64, receivedAt time.Time) *consignment.Consignment {
	t.Helper()
	sender, err := consignment.NewParty("sender", "Asha", "asha@example.com")
	require.NoError(t, err)
	receiver, err := consignment.NewParty("receiver", "Ravi", "ravi@example.com")
	require.NoError(t, err)
	charge, err := kernel.NewMoney(volume * 100)
	require.NoError(t, err)

	c, err := consignment.NewConsignment(
		kernel.NewUUID(), consignment.GenerateTrackingNumber(receivedAt), route,
		kernel.MustNewVolume(volume), charge, sender, receiver, receivedAt,
	)
	require.NoError(t, err)
	return c
}

// planned returns a freshly created Planned allocation with its truck and
// two consignments totalling 550.
func planned(t *testing.T) (*allocation.Allocation, *truck.Truck, []*consignment.Consignment) {
	t.Helper()
	route := newRoute(t)
	tr := newTruck(t, kernel.NewUUID(), 600, route.Source())
	cs := []*consignment.Consignment{
		newConsignment(t, route, 300, now.Add(-48*time.Hour)),
		newConsignment(t, route, 250, now.Add(-24*time.Hour)),
	}

	a, err := services.NewAllocationStateMachine().Create(kernel.NewUUID(), tr, route, cs, now, allocation.Details{})
	require.NoError(t, err)
	return a, tr, cs
}
