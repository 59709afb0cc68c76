// ABOUTME: Storage error type for local persistence failures
// ABOUTME: Wraps SQLite errors so callers can distinguish store faults from sync faults
package db

import "fmt"

// StorageError marks a local persistence failure (quota, corruption, I/O).
// The synchronizer treats these as fatal to the operation rather than
// falling back or queueing.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
