// Package guard detects value objects that were created as zero values instead
// of through their constructors. Commands and queries embed a ConstructorGuard
// and call Validate before a handler acts on them.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is only valid when obtained from NewConstructorGuard.
//
//	type DispatchCommand struct {
//	    allocationID kernel.UUID
//	    guard        guard.ConstructorGuard
//	}
//
//	func (c DispatchCommand) Validate() error {
//	    return c.guard.Validate(ErrDispatchCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) if the
// guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
