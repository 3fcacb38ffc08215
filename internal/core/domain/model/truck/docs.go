// Package truck contains the Truck aggregate and its fleet status machine.
package truck
