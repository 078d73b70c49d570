package core

import (
	"context"

	"github.com/google/uuid"
)

// WorkItem is the unit of work accepted by a TaskQueueWorker.
//
// The worker treats it as opaque: it reads the name for diagnostics and
// invokes Execute exactly once, on the worker goroutine. Execute may block for
// as long as it needs; the context it receives is never cancelled by the
// worker because in-flight items always run to completion.
type WorkItem interface {
	// Name returns an identifying label. It must be safe to call repeatedly.
	Name() string

	// Execute performs the work. A returned error or a panic is reported
	// by the worker and otherwise swallowed.
	Execute(ctx context.Context) error
}

// =============================================================================
// Closure adapters
// =============================================================================

type funcWorkItem struct {
	name string
	fn   func(ctx context.Context) error
}

// NewWorkItem wraps fn as a WorkItem with the given name.
func NewWorkItem(name string, fn func(ctx context.Context) error) WorkItem {
	return &funcWorkItem{name: name, fn: fn}
}

func (w *funcWorkItem) Name() string { return w.name }

func (w *funcWorkItem) Execute(ctx context.Context) error {
	if w.fn == nil {
		return nil
	}
	return w.fn(ctx)
}

// WorkItemFunc wraps a closure that cannot fail.
func WorkItemFunc(name string, fn func(ctx context.Context)) WorkItem {
	return NewWorkItem(name, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// =============================================================================
// WorkItemID
// =============================================================================

// WorkItemID identifies one execution of a WorkItem. It is assigned when the
// worker dispatches the item, so two submissions of the same value get
// different IDs.
type WorkItemID uuid.UUID

// GenerateWorkItemID returns a new random WorkItemID.
func GenerateWorkItemID() WorkItemID {
	return WorkItemID(uuid.New())
}

// String returns the canonical UUID form.
func (id WorkItemID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value.
func (id WorkItemID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// =============================================================================
// Context Helper
// =============================================================================

type workerKeyType struct{}

var workerKey workerKeyType

// GetCurrentWorker returns the worker executing the current WorkItem, or nil
// when ctx did not come from a worker.
func GetCurrentWorker(ctx context.Context) *TaskQueueWorker {
	if v := ctx.Value(workerKey); v != nil {
		return v.(*TaskQueueWorker)
	}
	return nil
}
