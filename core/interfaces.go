package core

import (
	"context"
	"time"
)

// =============================================================================
// FailureHandler: Interface for handling failed work items
// =============================================================================

// FailureHandler is called when a WorkItem returns an error or panics.
//
// It runs on the worker goroutine, after the item has finished and before the
// next entry is dispatched, so a slow handler delays the queue.
type FailureHandler interface {
	// HandleFailure is called once per failed execution.
	//
	// Parameters:
	// - ctx: The context the item was executed with
	// - workerName: The name of the worker the item ran on
	// - err: Details of the failure; err.Panicked() tells panics apart
	HandleFailure(ctx context.Context, workerName string, err *ExecutionError)
}

// FailureHandlerFunc adapts a function to FailureHandler.
type FailureHandlerFunc func(ctx context.Context, workerName string, err *ExecutionError)

// HandleFailure calls f.
func (f FailureHandlerFunc) HandleFailure(ctx context.Context, workerName string, err *ExecutionError) {
	f(ctx, workerName, err)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting worker metrics.
// Implementations can send metrics to monitoring systems (see observability/prometheus).
//
// Methods should be non-blocking and fast; most are called on the worker
// goroutine or inside Submit.
type Metrics interface {
	// RecordItemDuration records how long an item took to execute.
	RecordItemDuration(workerName string, duration time.Duration)

	// RecordItemFailure records that an item failed. panicked is true when
	// the failure was a recovered panic rather than a returned error.
	RecordItemFailure(workerName string, panicked bool)

	// RecordQueueDepth records the number of pending items after a push or pop.
	RecordQueueDepth(workerName string, depth int)

	// RecordItemRejected records that an item was discarded by Submit.
	RecordItemRejected(workerName string, reason string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordItemDuration is a no-op.
func (m *NilMetrics) RecordItemDuration(workerName string, duration time.Duration) {}

// RecordItemFailure is a no-op.
func (m *NilMetrics) RecordItemFailure(workerName string, panicked bool) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(workerName string, depth int) {}

// RecordItemRejected is a no-op.
func (m *NilMetrics) RecordItemRejected(workerName string, reason string) {}

// =============================================================================
// RejectedItemHandler: Interface for handling rejected submissions
// =============================================================================

// Rejection reasons passed to RejectedItemHandler and Metrics.
const (
	RejectReasonStopped = "stopped"
)

// RejectedItemHandler is told about items that Submit discarded because the
// worker was not running. It is called on the submitting goroutine.
type RejectedItemHandler interface {
	HandleRejectedItem(workerName string, item WorkItem, reason string)
}

// RejectedItemHandlerFunc adapts a function to RejectedItemHandler.
type RejectedItemHandlerFunc func(workerName string, item WorkItem, reason string)

// HandleRejectedItem calls f.
func (f RejectedItemHandlerFunc) HandleRejectedItem(workerName string, item WorkItem, reason string) {
	f(workerName, item, reason)
}

// =============================================================================
// WorkerConfig: Configuration for TaskQueueWorker
// =============================================================================

const defaultWorkerName = "task-queue-worker"

// WorkerConfig holds configuration options for TaskQueueWorker.
// All handlers are optional; nil fields are replaced with defaults.
type WorkerConfig struct {
	// Name labels logs, metrics and execution records. Defaults to "task-queue-worker".
	Name string

	// HistoryCapacity bounds RecentExecutions. Defaults to 100.
	HistoryCapacity int

	// AutoStart starts the worker from the constructor.
	AutoStart bool

	// Logger receives lifecycle and failure events. Defaults to DefaultLogger.
	Logger Logger

	// Metrics records execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// FailureHandler is called for every failed item. Optional.
	FailureHandler FailureHandler

	// RejectedItemHandler is called for every discarded submission. Optional.
	RejectedItemHandler RejectedItemHandler
}

// DefaultWorkerConfig returns a config with default handlers.
func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		Name:            defaultWorkerName,
		HistoryCapacity: defaultHistoryCapacity,
		Logger:          NewDefaultLogger(),
		Metrics:         &NilMetrics{},
	}
}

func (c *WorkerConfig) withDefaults() WorkerConfig {
	var out WorkerConfig
	if c != nil {
		out = *c
	}
	if out.Name == "" {
		out.Name = defaultWorkerName
	}
	if out.HistoryCapacity < 1 {
		out.HistoryCapacity = defaultHistoryCapacity
	}
	if out.Logger == nil {
		out.Logger = NewDefaultLogger()
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	return out
}
