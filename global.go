package taskqueue

import (
	"sync"

	"github.com/Swind/go-task-queue/core"
)

// =============================================================================
// Global Worker Helper (Singleton)
// =============================================================================

var (
	globalWorker *TaskQueueWorker
	globalMu     sync.Mutex
)

// InitGlobalWorker creates and starts the process-wide worker.
// Later calls are no-ops until ShutdownGlobalWorker is called.
func InitGlobalWorker(cfg *WorkerConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalWorker != nil {
		return // Already initialized
	}

	globalWorker = core.NewTaskQueueWorker(cfg)
	globalWorker.Start()
}

// GlobalWorker returns the global worker instance.
// It panics if InitGlobalWorker has not been called.
func GlobalWorker() *TaskQueueWorker {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalWorker == nil {
		panic("GlobalWorker not initialized. Call InitGlobalWorker() first.")
	}
	return globalWorker
}

// Submit queues item on the global worker. Without a global worker the item
// is discarded, matching Submit on a stopped worker.
func Submit(item WorkItem) {
	globalMu.Lock()
	w := globalWorker
	globalMu.Unlock()

	if w == nil {
		return
	}
	w.Submit(item)
}

// ShutdownGlobalWorker stops the global worker, waiting for its backlog.
func ShutdownGlobalWorker() {
	globalMu.Lock()
	w := globalWorker
	globalWorker = nil
	globalMu.Unlock()

	if w != nil {
		w.Stop()
	}
}
