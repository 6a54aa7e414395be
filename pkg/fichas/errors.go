package fichas

import (
	"errors"
	"fmt"
)

// ErrBoundaryUnavailable indicates no backend is reachable in this environment.
var ErrBoundaryUnavailable = errors.New("backend unavailable")

// ErrBusy indicates the same operation is already in flight.
var ErrBusy = errors.New("operation already in progress")

// ErrSheetNotFound indicates a configured sheet is missing from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// BoundaryError represents a transport failure of a backend call: the call
// did not complete with a structured reply.
type BoundaryError struct {
	Operation string // "fetch", "process"
	Err       error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Operation, e.Err)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// NewBoundaryError creates a new BoundaryError.
func NewBoundaryError(operation string, err error) *BoundaryError {
	return &BoundaryError{
		Operation: operation,
		Err:       err,
	}
}
