// Package memory provides mutex-guarded in-memory implementations of the
// domain repositories. They honour the same atomicity guarantees as the
// postgres adapters (compare-and-set transitions, one active session per
// business, unique material order) and back STORAGE_DRIVER=memory and the
// application tests.
package memory
