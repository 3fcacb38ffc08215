// Package services provides domain services that coordinate trucks,
// consignments and allocations. Each one implements business logic that does
// not belong to a single aggregate root.
//
// The package includes:
//   - ChargeCalculator: prices a consignment from its volume
//   - AllocationPlanner: sums a route backlog and decides whether and to which truck it is allocated
//   - AllocationStateMachine: applies an allocation transition to its truck and consignments together
//
// The services are pure: they never read or write storage, so one command
// handler can load the aggregates, call a service and save the results in a
// single unit of work.
package services
