// Package avharvest keeps build metadata of the avharvest application.
package avharvest

var (
	// Version of the application, set by build flags.
	Version = "v0.1.0"

	// Build timestamp, set by build flags.
	Build = "n/a"
)
