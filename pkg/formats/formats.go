// Package formats reads and writes the binary files of the export
// pipeline.
package formats

// Note: SVC (packed vertex channels) is fully implemented in svc.go
