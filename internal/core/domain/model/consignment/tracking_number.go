package consignment

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"freight/internal/pkg/errs"
)

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var trackingPattern = regexp.MustCompile(`^CN-\d{6}-[0-9A-Z]{5}$`)

// TrackingNumber is the public code printed on a consignment note,
// e.g. "CN-482913-7QK2D".
type TrackingNumber struct {
	value string
}

// NewTrackingNumber parses and validates a tracking number. Input is trimmed
// and upper-cased.
func NewTrackingNumber(value string) (TrackingNumber, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return TrackingNumber{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if !trackingPattern.MatchString(value) {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"trackingNumber",
			fmt.Errorf("%q does not match CN-NNNNNN-XXXXX", value),
		)
	}
	return TrackingNumber{value: value}, nil
}

// GenerateTrackingNumber builds a tracking number from the last six digits of
// the millisecond timestamp and five random base36 characters.
func GenerateTrackingNumber(now time.Time) TrackingNumber {
	var suffix [5]byte
	for i := range suffix {
		suffix[i] = trackingAlphabet[rand.IntN(len(trackingAlphabet))] //nolint:gosec // not security sensitive
	}
	millis := now.UnixMilli() % 1_000_000
	return TrackingNumber{value: fmt.Sprintf("CN-%06d-%s", millis, suffix[:])}
}

func (n TrackingNumber) String() string {
	return n.value
}

// IsZero reports whether the tracking number is unset.
func (n TrackingNumber) IsZero() bool {
	return n.value == ""
}
