package core

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerState is the lifecycle state of a TaskQueueWorker.
type WorkerState int32

const (
	// WorkerStateStopped: no worker goroutine; Submit discards items.
	WorkerStateStopped WorkerState = iota

	// WorkerStateRunning: the worker goroutine is dispatching items.
	WorkerStateRunning

	// WorkerStateDraining: the stop sentinel was popped; remaining items
	// are being executed before the goroutine exits.
	WorkerStateDraining
)

func (s WorkerState) String() string {
	switch s {
	case WorkerStateStopped:
		return "stopped"
	case WorkerStateRunning:
		return "running"
	case WorkerStateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// TaskQueueWorker executes WorkItems one at a time, in submission order, on a
// single dedicated goroutine.
//
// Producers call Submit from any goroutine. Stop enqueues a stop sentinel
// behind everything already submitted and blocks until the worker goroutine
// has executed the backlog and exited, so no accepted item is lost. The
// worker can be started again after it has stopped.
//
// Execute is always called without the worker's lock held, so a long-running
// item never blocks producers.
type TaskQueueWorker struct {
	name            string
	logger          Logger
	metrics         Metrics
	failureHandler  FailureHandler
	rejectedHandler RejectedItemHandler
	history         *executionHistory

	// mu guards queue, running, state and done. cond waits on mu.
	mu      sync.Mutex
	cond    *sync.Cond
	queue   entryQueue
	running bool
	state   WorkerState
	done    chan struct{} // closed when the current run loop exits

	executed atomic.Int64
	failed   atomic.Int64
	rejected atomic.Int64
}

// NewTaskQueueWorker creates a stopped worker. A nil cfg uses DefaultWorkerConfig.
// If cfg.AutoStart is set the worker is started before returning.
func NewTaskQueueWorker(cfg *WorkerConfig) *TaskQueueWorker {
	c := cfg.withDefaults()
	w := &TaskQueueWorker{
		name:            c.Name,
		logger:          c.Logger,
		metrics:         c.Metrics,
		failureHandler:  c.FailureHandler,
		rejectedHandler: c.RejectedItemHandler,
		history:         newExecutionHistory(c.HistoryCapacity),
		queue:           newEntryQueue(),
	}
	w.cond = sync.NewCond(&w.mu)

	if c.AutoStart {
		w.Start()
	}
	return w
}

// Name returns the worker name
func (w *TaskQueueWorker) Name() string {
	return w.name
}

// Start spawns the worker goroutine. It is a no-op unless the worker is
// stopped, including while a previous run is still draining.
func (w *TaskQueueWorker) Start() {
	w.mu.Lock()
	if w.state != WorkerStateStopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.state = WorkerStateRunning
	done := make(chan struct{})
	w.done = done
	w.mu.Unlock()

	w.logger.Info("Worker started", F("worker", w.name))
	go w.runLoop(done)
}

// Submit queues item for execution.
//
// A nil item is ignored. If the worker is not running the item is discarded
// without being executed; the rejection is reported to metrics and the
// RejectedItemHandler but never to the caller.
func (w *TaskQueueWorker) Submit(item WorkItem) {
	if item == nil {
		return
	}
	if !w.enqueue(workEntry(item)) {
		w.reject(item, RejectReasonStopped)
	}
}

// Shutdown stops accepting new items and asks the worker to exit once the
// backlog is done, without waiting for it. Unlike Stop it is safe to call
// from inside a WorkItem.
func (w *TaskQueueWorker) Shutdown() {
	w.requestStop()
}

// Stop stops accepting new items, then blocks until every item submitted
// before the call has run and the worker goroutine has exited. It returns
// immediately if the worker is already stopped.
//
// Stop must not be called from a WorkItem running on this worker: the worker
// would wait for itself. Use Shutdown there.
func (w *TaskQueueWorker) Stop() {
	if done := w.requestStop(); done != nil {
		<-done
	}
}

// Close implements io.Closer by calling Stop. It always returns nil.
func (w *TaskQueueWorker) Close() error {
	w.Stop()
	return nil
}

// requestStop moves a running worker towards Stopped and returns the done
// channel of the run being stopped, or nil if there is nothing to wait for.
// The running flag and the sentinel change in one critical section, so no
// work item can be queued behind the sentinel.
func (w *TaskQueueWorker) requestStop() chan struct{} {
	w.mu.Lock()
	if w.state == WorkerStateStopped {
		w.mu.Unlock()
		return nil
	}
	done := w.done
	if !w.running {
		// Another caller already enqueued the sentinel; wait for the same run
		w.mu.Unlock()
		return done
	}
	w.running = false
	w.queue.push(stopEntry())
	pending := w.queue.pendingItems()
	w.cond.Signal()
	w.mu.Unlock()

	w.logger.Info("Worker stop requested", F("worker", w.name), F("pending", pending))
	return done
}

// IsRunning reports whether Submit currently accepts items.
func (w *TaskQueueWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// State returns the current lifecycle state.
func (w *TaskQueueWorker) State() WorkerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Stats returns a snapshot of the worker's counters.
func (w *TaskQueueWorker) Stats() WorkerStats {
	w.mu.Lock()
	stats := WorkerStats{
		Name:    w.name,
		State:   w.state,
		Pending: w.queue.pendingItems(),
	}
	w.mu.Unlock()

	stats.Executed = w.executed.Load()
	stats.Failed = w.failed.Load()
	stats.Rejected = w.rejected.Load()
	if last, ok := w.history.Last(); ok {
		stats.LastItemName = last.Name
		stats.LastItemAt = last.FinishedAt
	}
	return stats
}

// RecentExecutions returns up to limit execution records, newest first.
// limit <= 0 returns everything retained.
func (w *TaskQueueWorker) RecentExecutions(limit int) []ExecutionRecord {
	return w.history.Recent(limit)
}

// WaitIdle blocks until every item submitted before the call has finished.
//
// Returns ErrWorkerStopped if the worker is not accepting items, or ctx.Err()
// if ctx ends first. Items submitted after WaitIdle is called are not waited for.
func (w *TaskQueueWorker) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	if !w.enqueue(barrierEntry(done)) {
		return ErrWorkerStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *TaskQueueWorker) enqueue(e queueEntry) bool {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return false
	}
	w.queue.push(e)
	depth := w.queue.pendingItems()
	w.cond.Signal()
	w.mu.Unlock()

	w.metrics.RecordQueueDepth(w.name, depth)
	return true
}

func (w *TaskQueueWorker) reject(item WorkItem, reason string) {
	w.rejected.Add(1)
	w.metrics.RecordItemRejected(w.name, reason)
	w.logger.Debug("Work item rejected",
		F("worker", w.name),
		F("item", itemName(item)),
		F("reason", reason),
	)
	w.reportRejected(item, reason)
}

func (w *TaskQueueWorker) reportRejected(item WorkItem, reason string) {
	if w.rejectedHandler == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Error("Rejected item handler panicked",
				F("worker", w.name),
				F("item", itemName(item)),
				F("panic", rec),
			)
		}
	}()
	w.rejectedHandler.HandleRejectedItem(w.name, item, reason)
}

// =============================================================================
// Run loop
// =============================================================================

// runLoop occupies the worker goroutine for one Start..Stop cycle.
func (w *TaskQueueWorker) runLoop(done chan struct{}) {
	ctx := context.WithValue(context.Background(), workerKey, w)

	for {
		e, depth := w.next()
		if e.stop {
			break
		}
		w.dispatch(ctx, e, depth, false)
	}

	w.logger.Debug("Worker draining", F("worker", w.name))
	w.drain(ctx)
	w.logger.Info("Worker stopped", F("worker", w.name), F("executed", w.executed.Load()))

	// Stopped and the closed done channel become visible together, so any
	// Stop that observes Stopped has nothing left to wait for.
	w.mu.Lock()
	w.state = WorkerStateStopped
	close(done)
	w.mu.Unlock()
}

// next waits until the queue is non-empty and pops its head. Popping the
// stop sentinel moves the worker into the draining state.
func (w *TaskQueueWorker) next() (queueEntry, int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for w.queue.len() == 0 {
		w.cond.Wait()
	}

	e, _ := w.queue.pop()
	if e.stop {
		w.state = WorkerStateDraining
	}
	return e, w.queue.pendingItems()
}

// drain executes whatever is left behind the sentinel until the queue is
// empty. The worker stays Draining; running is already false, so nothing
// new can be queued and Start is a no-op until runLoop returns.
func (w *TaskQueueWorker) drain(ctx context.Context) {
	for {
		w.mu.Lock()
		e, ok := w.queue.pop()
		if !ok {
			w.mu.Unlock()
			return
		}
		depth := w.queue.pendingItems()
		w.mu.Unlock()

		if e.stop {
			continue
		}
		w.dispatch(ctx, e, depth, true)
	}
}

func (w *TaskQueueWorker) dispatch(ctx context.Context, e queueEntry, depth int, drained bool) {
	if e.barrier != nil {
		close(e.barrier)
		return
	}
	w.metrics.RecordQueueDepth(w.name, depth)
	w.execute(ctx, e.item, drained)
}

// execute runs one item to completion and records the outcome. Failures are
// contained here so they never reach the run loop.
func (w *TaskQueueWorker) execute(ctx context.Context, item WorkItem, drained bool) {
	id := GenerateWorkItemID()
	name := itemName(item)

	startedAt := time.Now()
	execErr := invoke(ctx, id, name, item)
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt)

	w.executed.Add(1)
	w.metrics.RecordItemDuration(w.name, duration)
	w.history.Add(ExecutionRecord{
		ItemID:     id,
		Name:       name,
		WorkerName: w.name,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   duration,
		Failed:     execErr != nil,
		Panicked:   execErr != nil && execErr.Panicked(),
		Drained:    drained,
	})

	if execErr == nil {
		return
	}

	w.failed.Add(1)
	w.metrics.RecordItemFailure(w.name, execErr.Panicked())
	w.logger.Error("Work item failed",
		F("worker", w.name),
		F("item", name),
		F("id", id.String()),
		F("panicked", execErr.Panicked()),
		F("error", execErr.Error()),
	)
	w.reportFailure(ctx, execErr)
}

func (w *TaskQueueWorker) reportFailure(ctx context.Context, execErr *ExecutionError) {
	if w.failureHandler == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Error("Failure handler panicked",
				F("worker", w.name),
				F("item", execErr.ItemName),
				F("panic", rec),
			)
		}
	}()
	w.failureHandler.HandleFailure(ctx, w.name, execErr)
}

// invoke calls item.Execute and converts a returned error or a panic into an
// ExecutionError.
func invoke(ctx context.Context, id WorkItemID, name string, item WorkItem) (execErr *ExecutionError) {
	defer func() {
		if rec := recover(); rec != nil {
			execErr = newPanicError(id, name, rec, debug.Stack())
		}
	}()

	if err := item.Execute(ctx); err != nil {
		return newReturnedError(id, name, err)
	}
	return nil
}

func itemName(item WorkItem) (name string) {
	defer func() {
		if recover() != nil {
			name = "anonymous"
		}
	}()
	if name = item.Name(); name == "" {
		name = "anonymous"
	}
	return name
}
