package core

import (
	"errors"
	"strings"
	"testing"
)

func TestExecutionError_Returned(t *testing.T) {
	cause := errors.New("disk full")
	err := newReturnedError(GenerateWorkItemID(), "write", cause)

	if err.Panicked() {
		t.Error("Panicked() = true for returned error")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if got := err.Error(); !strings.Contains(got, `"write" failed`) || !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q", got)
	}
}

func TestExecutionError_Panic(t *testing.T) {
	cause := errors.New("wrapped")
	withErr := newPanicError(GenerateWorkItemID(), "p", cause, []byte("stack"))
	if !withErr.Panicked() || !errors.Is(withErr, cause) {
		t.Errorf("panic with error value: Panicked=%v Is=%v, want true true", withErr.Panicked(), errors.Is(withErr, cause))
	}

	plain := newPanicError(GenerateWorkItemID(), "p", 42, nil)
	if plain.Unwrap() != nil {
		t.Errorf("Unwrap() = %v for non-error panic, want nil", plain.Unwrap())
	}
	if got := plain.Error(); !strings.Contains(got, "panicked: 42") {
		t.Errorf("Error() = %q, want it to mention the panic value", got)
	}

	var target *ExecutionError
	if !errors.As(error(plain), &target) {
		t.Error("errors.As failed for *ExecutionError")
	}
}
