package core

import "time"

// ExecutionRecord captures a completed work item execution.
type ExecutionRecord struct {
	ItemID     WorkItemID
	Name       string
	WorkerName string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Failed     bool
	Panicked   bool
	// Drained is true when the item ran after the stop sentinel was popped.
	Drained bool
}

// WorkerStats represents runtime observability state for a TaskQueueWorker.
type WorkerStats struct {
	Name         string
	State        WorkerState
	Pending      int
	Executed     int64
	Failed       int64
	Rejected     int64
	LastItemName string
	LastItemAt   time.Time
}
