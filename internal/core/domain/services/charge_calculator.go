package services

import (
	"fmt"
	"math"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// DefaultBaseRate is the charge per cubic metre when none is configured.
const DefaultBaseRate = 100.0

// ChargeCalculator prices a consignment at intake. The price is volume times
// a flat base rate; the route is accepted but distance is not priced.
type ChargeCalculator struct {
	baseRate float64
}

// NewChargeCalculator requires a positive finite base rate.
func NewChargeCalculator(baseRate float64) (ChargeCalculator, error) {
	if math.IsNaN(baseRate) || math.IsInf(baseRate, 0) || baseRate <= 0 {
		return ChargeCalculator{}, errs.NewValueIsInvalidErrorWithCause(
			"baseRate",
			fmt.Errorf("%g is not greater than 0", baseRate),
		)
	}
	return ChargeCalculator{baseRate: baseRate}, nil
}

// BaseRate returns the price of one cubic metre.
func (c ChargeCalculator) BaseRate() float64 {
	return c.baseRate
}

// Charge returns volume × baseRate, rounded to cents.
func (c ChargeCalculator) Charge(volume kernel.Volume, route kernel.Route) (kernel.Money, error) {
	if err := route.Validate(); err != nil {
		return kernel.Money{}, err
	}
	if volume.IsZero() {
		return kernel.Money{}, errs.NewValueIsRequiredError("volume")
	}
	if c.baseRate <= 0 {
		return kernel.Money{}, errs.NewValueIsInvalidError("baseRate")
	}
	return kernel.NewMoney(volume.Float64() * c.baseRate)
}
