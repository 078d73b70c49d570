package core

import (
	"errors"
	"fmt"
)

// ErrWorkerStopped is returned by WaitIdle when the worker is not accepting work.
var ErrWorkerStopped = errors.New("task queue worker is stopped")

// ExecutionError describes a failed WorkItem execution: either Execute
// returned a non-nil error (Err) or it panicked (PanicValue, Stack).
type ExecutionError struct {
	ItemID     WorkItemID
	ItemName   string
	Err        error
	PanicValue any
	Stack      []byte
	panicked   bool
}

func newReturnedError(id WorkItemID, name string, err error) *ExecutionError {
	return &ExecutionError{ItemID: id, ItemName: name, Err: err}
}

func newPanicError(id WorkItemID, name string, rec any, stack []byte) *ExecutionError {
	e := &ExecutionError{
		ItemID:     id,
		ItemName:   name,
		PanicValue: rec,
		Stack:      stack,
		panicked:   true,
	}
	// panic(err) keeps the error chain reachable through Unwrap
	if err, ok := rec.(error); ok {
		e.Err = err
	}
	return e
}

// Panicked reports whether the item panicked.
func (e *ExecutionError) Panicked() bool {
	return e.panicked
}

func (e *ExecutionError) Error() string {
	if e.panicked {
		return fmt.Sprintf("work item %q panicked: %v", e.ItemName, e.PanicValue)
	}
	return fmt.Sprintf("work item %q failed: %v", e.ItemName, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
