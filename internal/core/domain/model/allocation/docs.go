// Package allocation contains the TruckAllocation aggregate and the complete
// transition table of its lifecycle (see ActionFor).
package allocation
