package kernel

import (
	"fmt"
	"math"

	"freight/internal/pkg/errs"
)

// Money is a non-negative monetary amount rounded to cents.
type Money struct {
	amount float64
}

// NewMoney creates a Money value. Negative and non-finite amounts are rejected.
func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"charge",
			fmt.Errorf("%g is negative or not finite", amount),
		)
	}
	return Money{amount: math.Round(amount*100) / 100}, nil
}

// Float64 returns the amount.
func (m Money) Float64() float64 {
	return m.amount
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.amount)
}
