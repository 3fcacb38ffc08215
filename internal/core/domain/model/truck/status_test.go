package truck_test

import (
	"fmt"
	"testing"

	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	for _, status := range []truck.Status{truck.Available, truck.Loading, truck.InTransit, truck.Maintenance, truck.OutOfService} {
		t.Run(fmt.Sprintf("should accept %s", status), func(t *testing.T) {
			require.NoError(t, status.Validate())
		})
	}

	for _, status := range []truck.Status{truck.Unknown, truck.Status(-1), truck.Status(6)} {
		t.Run(fmt.Sprintf("should reject %d", int(status)), func(t *testing.T) {
			err := status.Validate()

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, err := truck.ParseStatus("Maintenance")
	require.NoError(t, err)
	assert.Equal(t, truck.Maintenance, status)

	_, err = truck.ParseStatus("Unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = truck.ParseStatus("parked")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_EngineTransitions(t *testing.T) {
	tests := []struct {
		name string
		from truck.Status
		move func(truck.Status) (truck.Status, error)
		want truck.Status
	}{
		{"load", truck.Available, truck.Status.Load, truck.Loading},
		{"depart", truck.Loading, truck.Status.Depart, truck.InTransit},
		{"arrive", truck.InTransit, truck.Status.Arrive, truck.Available},
		{"release", truck.Loading, truck.Status.Release, truck.Available},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.move(tt.from)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should reject load from maintenance", func(t *testing.T) {
		got, err := truck.Maintenance.Load()

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, truck.Unknown, got)
	})

	t.Run("should reject depart from available", func(t *testing.T) {
		_, err := truck.Available.Depart()

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestStatus_SetOperational(t *testing.T) {
	t.Run("should move between operator statuses", func(t *testing.T) {
		got, err := truck.Available.SetOperational(truck.Maintenance)
		require.NoError(t, err)
		assert.Equal(t, truck.Maintenance, got)

		got, err = truck.Maintenance.SetOperational(truck.OutOfService)
		require.NoError(t, err)
		assert.Equal(t, truck.OutOfService, got)
	})

	t.Run("should refuse engine owned targets", func(t *testing.T) {
		_, err := truck.Available.SetOperational(truck.Loading)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse while an allocation holds the truck", func(t *testing.T) {
		_, err := truck.InTransit.SetOperational(truck.Maintenance)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
