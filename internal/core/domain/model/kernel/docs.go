// Package kernel provides the value objects shared by every aggregate of the
// allocation engine:
//   - UUID: identifiers of offices, trucks, consignments and allocations
//   - Volume: cargo space in cubic metres with exact three-decimal arithmetic
//   - Money: consignment charges
//   - Route: an ordered (source office, destination office) pair
//
// All values are immutable and safe for concurrent use.
package kernel
