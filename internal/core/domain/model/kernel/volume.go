package kernel

import (
	"fmt"
	"math"

	"freight/internal/pkg/errs"
)

// volumePrecision is the number of decimal places kept for cubic metres.
const volumePrecision = 1000

// ErrVolumeIsInvalid is returned for zero, negative or non-finite volumes.
var ErrVolumeIsInvalid = errs.NewValueIsInvalidError("volume")

// Volume is an amount of cargo space in cubic metres.
// Values are rounded to three decimal places so that repeated sums over a
// backlog compare exactly against a trigger or a truck capacity.
type Volume struct {
	cubicMetres float64
}

// ZeroVolume is the neutral element for Add. It is the only non-positive
// Volume that can exist.
func ZeroVolume() Volume {
	return Volume{}
}

// NewVolume creates a strictly positive volume.
func NewVolume(cubicMetres float64) (Volume, error) {
	if math.IsNaN(cubicMetres) || math.IsInf(cubicMetres, 0) || cubicMetres <= 0 {
		return Volume{}, errs.NewValueIsInvalidErrorWithCause(
			"volume",
			fmt.Errorf("%g is not greater than 0", cubicMetres),
		)
	}
	return Volume{cubicMetres: round(cubicMetres)}, nil
}

// MustNewVolume is NewVolume for constants and tests; it panics on invalid input.
func MustNewVolume(cubicMetres float64) Volume {
	v, err := NewVolume(cubicMetres)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 returns the volume in cubic metres.
func (v Volume) Float64() float64 {
	return v.cubicMetres
}

// Add returns the sum of both volumes.
func (v Volume) Add(other Volume) Volume {
	return Volume{cubicMetres: round(v.cubicMetres + other.cubicMetres)}
}

// IsZero reports whether the volume is empty.
func (v Volume) IsZero() bool {
	return v.cubicMetres == 0
}

// GreaterOrEqual reports whether v >= other.
func (v Volume) GreaterOrEqual(other Volume) bool {
	return v.cubicMetres >= other.cubicMetres
}

// Exceeds reports whether v > other.
func (v Volume) Exceeds(other Volume) bool {
	return v.cubicMetres > other.cubicMetres
}

// String renders the volume with its unit, e.g. "550 m3".
func (v Volume) String() string {
	return fmt.Sprintf("%g m3", v.cubicMetres)
}

func round(f float64) float64 {
	return math.Round(f*volumePrecision) / volumePrecision
}
