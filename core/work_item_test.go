package core

import (
	"context"
	"errors"
	"testing"
)

// TestWorkItemID_StringAndIsZero verifies WorkItemID zero-state and string behavior
// Given: A zero WorkItemID and a generated WorkItemID
// When: IsZero and String are called
// Then: Zero ID reports true and generated ID is non-zero with a UUID string
func TestWorkItemID_StringAndIsZero(t *testing.T) {
	// Arrange
	var zero WorkItemID

	// Act and Assert
	if !zero.IsZero() {
		t.Fatal("zero WorkItemID should report IsZero() == true")
	}

	// Act
	id := GenerateWorkItemID()

	// Assert
	if id.IsZero() {
		t.Fatal("generated WorkItemID should not be zero")
	}
	if got := len(id.String()); got != 36 {
		t.Fatalf("WorkItemID.String() length = %d, want 36", got)
	}
	if id == GenerateWorkItemID() {
		t.Fatal("two generated IDs are equal")
	}
}

func TestNewWorkItem(t *testing.T) {
	errBad := errors.New("bad")
	item := NewWorkItem("fails", func(ctx context.Context) error { return errBad })

	if item.Name() != "fails" {
		t.Errorf("Name() = %q, want fails", item.Name())
	}
	if err := item.Execute(context.Background()); !errors.Is(err, errBad) {
		t.Errorf("Execute() = %v, want errBad", err)
	}

	if err := NewWorkItem("nil-fn", nil).Execute(context.Background()); err != nil {
		t.Errorf("Execute() with nil fn = %v, want nil", err)
	}
}

func TestWorkItemFunc(t *testing.T) {
	called := false
	item := WorkItemFunc("ok", func(ctx context.Context) { called = true })

	if err := item.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() = %v, want nil", err)
	}
	if !called {
		t.Fatal("closure was not called")
	}
}

// TestGetCurrentWorker verifies extracting the worker from context
// Given: A plain context and a context from a running worker
// When: GetCurrentWorker is called
// Then: It returns nil for the plain context and the worker inside an item
func TestGetCurrentWorker(t *testing.T) {
	// Arrange, Act and Assert - plain context
	if got := GetCurrentWorker(context.Background()); got != nil {
		t.Fatalf("GetCurrentWorker(background) = %p, want nil", got)
	}

	// Arrange
	w := NewTaskQueueWorker(&WorkerConfig{Logger: NewNoOpLogger()})
	w.Start()
	seen := make(chan *TaskQueueWorker, 1)

	// Act
	w.Submit(WorkItemFunc("probe", func(ctx context.Context) {
		seen <- GetCurrentWorker(ctx)
	}))
	w.Stop()

	// Assert
	if got := <-seen; got != w {
		t.Fatal("GetCurrentWorker(ctx) did not return the executing worker")
	}
}

func TestItemName_Fallbacks(t *testing.T) {
	if got := itemName(namedItem("")); got != "anonymous" {
		t.Errorf("itemName(empty) = %q, want anonymous", got)
	}
	if got := itemName(panickingName{}); got != "anonymous" {
		t.Errorf("itemName(panicking) = %q, want anonymous", got)
	}
}

type panickingName struct{}

func (panickingName) Name() string                      { panic("no name") }
func (panickingName) Execute(ctx context.Context) error { return nil }
