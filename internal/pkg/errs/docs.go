// Package errs provides the error taxonomy shared by the allocation engine.
//
// Every error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type carrying structured detail (param name, entity id, cause)
//   - Constructor functions with and without cause where a cause makes sense
//   - Error() for formatting and Unwrap() so errors.Is matches the sentinel
//
// The families map onto the failures a caller has to tell apart:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     CapacityExceededError (see IsValidation)
//   - ObjectNotFoundError: a referenced truck, consignment or allocation is missing
//   - InvalidTransitionError: a status change outside the permitted table
//   - ConcurrencyConflictError: a conditional write lost a race
//   - StoreError: the underlying persistence failed
package errs
