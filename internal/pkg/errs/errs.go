package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below unwraps to exactly one of them so
// callers can classify failures with errors.Is.
var (
	ErrValueIsRequired      = errors.New("value is required")
	ErrValueIsInvalid       = errors.New("value is invalid")
	ErrValueIsOutOfRange    = errors.New("value is out of range")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrObjectNotFound       = errors.New("object not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrConcurrencyConflict  = errors.New("concurrency conflict")
	ErrStore                = errors.New("store failure")
	errValidationCategories = []error{
		ErrValueIsRequired,
		ErrValueIsInvalid,
		ErrValueIsOutOfRange,
		ErrCapacityExceeded,
	}
)

// IsValidation reports whether err belongs to the validation family: a missing,
// malformed or out-of-range value, or an exceeded capacity.
func IsValidation(err error) bool {
	for _, target := range errValidationCategories {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError is returned when a value is present but malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value falls outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(fmt.Sprint(e.Value)), e.ParamName, sanitize(fmt.Sprint(e.Min)), sanitize(fmt.Sprint(e.Max)))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// CapacityExceededError is returned when the volume bound to a truck would
// exceed its capacity.
type CapacityExceededError struct {
	TruckID  string
	Volume   float64
	Capacity float64
}

func NewCapacityExceededError(truckID string, volume, capacity float64) *CapacityExceededError {
	return &CapacityExceededError{TruckID: truckID, Volume: volume, Capacity: capacity}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: total volume %g exceeds capacity %g of truck %s",
		ErrCapacityExceeded, e.Volume, e.Capacity, e.TruckID)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// ObjectNotFoundError is returned when a referenced entity does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(fmt.Sprintf("%s", e.ID)), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(fmt.Sprintf("%s", e.ID)))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// InvalidTransitionError is returned when a status change is not permitted from
// the entity's current status.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func NewInvalidTransitionError(entity, id, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, ID: id, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrencyConflictError is returned when a conditional write lost a race
// against another operation. The caller should re-read current state.
type ConcurrencyConflictError struct {
	Entity string
	ID     string
	Cause  error
}

func NewConcurrencyConflictError(entity, id string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity, ID: id}
}

func NewConcurrencyConflictErrorWithCause(entity, id string, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity, ID: id, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s was modified concurrently (cause: %v)", ErrConcurrencyConflict, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s was modified concurrently", ErrConcurrencyConflict, e.Entity, e.ID)
}

// Unwrap exposes the sentinel and, when present, the cause.
func (e *ConcurrencyConflictError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConcurrencyConflict}
	}
	return []error{ErrConcurrencyConflict, e.Cause}
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op    string
	Cause error
}

func NewStoreError(op string, cause error) *StoreError {
	return &StoreError{Op: op, Cause: cause}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Cause)
}

// Unwrap exposes both the sentinel and the driver error.
func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Cause}
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
