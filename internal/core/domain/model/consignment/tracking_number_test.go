package consignment_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingNumber(t *testing.T) {
	at := time.UnixMilli(1_709_283_482_913)

	number := consignment.GenerateTrackingNumber(at)

	assert.Regexp(t, `^CN-482913-[0-9A-Z]{5}$`, number.String())

	parsed, err := consignment.NewTrackingNumber(number.String())
	require.NoError(t, err)
	assert.Equal(t, number, parsed)
}

func TestGenerateTrackingNumber_PadsMillis(t *testing.T) {
	number := consignment.GenerateTrackingNumber(time.UnixMilli(5_000_042))

	assert.Regexp(t, `^CN-000042-`, number.String())
}

func TestNewTrackingNumber(t *testing.T) {
	t.Run("should normalise case and whitespace", func(t *testing.T) {
		number, err := consignment.NewTrackingNumber("  cn-123456-ab12z ")

		require.NoError(t, err)
		assert.Equal(t, "CN-123456-AB12Z", number.String())
	})

	t.Run("should require a value", func(t *testing.T) {
		_, err := consignment.NewTrackingNumber("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a malformed value", func(t *testing.T) {
		_, err := consignment.NewTrackingNumber("CN-12-ABCDE")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value", func(t *testing.T) {
		var number consignment.TrackingNumber

		assert.True(t, number.IsZero())
	})
}
