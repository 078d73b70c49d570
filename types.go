package taskqueue

import "github.com/Swind/go-task-queue/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the taskqueue package for most use cases.

// WorkItem is the unit of work
type WorkItem = core.WorkItem

// WorkItemID identifies one execution of a WorkItem
type WorkItemID = core.WorkItemID

// TaskQueueWorker executes WorkItems sequentially on one goroutine
type TaskQueueWorker = core.TaskQueueWorker

// WorkerConfig holds configuration options for TaskQueueWorker
type WorkerConfig = core.WorkerConfig

// WorkerState is the lifecycle state of a TaskQueueWorker
type WorkerState = core.WorkerState

// WorkerStats is a snapshot of worker counters
type WorkerStats = core.WorkerStats

// ExecutionRecord captures one completed execution
type ExecutionRecord = core.ExecutionRecord

// ExecutionError describes a failed execution
type ExecutionError = core.ExecutionError

// State constants
const (
	WorkerStateStopped  WorkerState = core.WorkerStateStopped
	WorkerStateRunning  WorkerState = core.WorkerStateRunning
	WorkerStateDraining WorkerState = core.WorkerStateDraining
)

// ErrWorkerStopped is returned by WaitIdle on a stopped worker
var ErrWorkerStopped = core.ErrWorkerStopped

// Convenience constructors
var (
	NewWorkItem         = core.NewWorkItem
	WorkItemFunc        = core.WorkItemFunc
	DefaultWorkerConfig = core.DefaultWorkerConfig
	GetCurrentWorker    = core.GetCurrentWorker
)

// New creates a stopped TaskQueueWorker. A nil cfg uses the defaults.
func New(cfg *WorkerConfig) *TaskQueueWorker {
	return core.NewTaskQueueWorker(cfg)
}
