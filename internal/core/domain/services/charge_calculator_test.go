package services_test

import (
	"testing"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeCalculator_Charge(t *testing.T) {
	route, _ := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	calculator, err := services.NewChargeCalculator(services.DefaultBaseRate)
	require.NoError(t, err)

	tests := []struct {
		volume float64
		want   string
	}{
		{0.1, "10.00"},
		{2.5, "250.00"},
		{300, "30000.00"},
		{12.345, "1234.50"},
	}

	for _, tt := range tests {
		t.Run(kernel.MustNewVolume(tt.volume).String(), func(t *testing.T) {
			charge, err := calculator.Charge(kernel.MustNewVolume(tt.volume), route)

			require.NoError(t, err)
			assert.Equal(t, tt.want, charge.String())
		})
	}

	t.Run("ignores direction", func(t *testing.T) {
		back, _ := kernel.NewRoute(route.Destination(), route.Source())

		there, _ := calculator.Charge(kernel.MustNewVolume(7), route)
		again, _ := calculator.Charge(kernel.MustNewVolume(7), back)

		assert.Equal(t, there, again)
	})

	t.Run("requires a route", func(t *testing.T) {
		_, err := calculator.Charge(kernel.MustNewVolume(1), kernel.Route{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires a volume", func(t *testing.T) {
		_, err := calculator.Charge(kernel.ZeroVolume(), route)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNewChargeCalculator(t *testing.T) {
	for _, rate := range []float64{0, -5} {
		_, err := services.NewChargeCalculator(rate)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	}

	calculator, err := services.NewChargeCalculator(42.5)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, calculator.BaseRate(), 0)
}
