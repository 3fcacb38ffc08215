// Package consignment contains the Consignment aggregate: a parcel lot
// accepted at intake, accumulated into its route's backlog and then carried
// by exactly one truck allocation.
package consignment
