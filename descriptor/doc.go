// Package descriptor parses externally supplied schema descriptors for
// loading into a catalog independent of script analysis — see descriptor.go
// for the document shape and LoadInto's rank-ordering convention.
package descriptor
