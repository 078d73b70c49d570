// Package taskqueue provides a single-worker task queue for Go.
//
// Callers submit named work items from any goroutine; one dedicated goroutine
// executes them strictly one at a time, in submission order. Stopping the
// worker never loses accepted work: Stop queues a stop marker behind
// everything already submitted and returns only after the backlog has run and
// the goroutine has exited.
//
// # Quick Start
//
//	w := taskqueue.New(nil)
//	w.Start()
//	defer w.Stop()
//
//	w.Submit(taskqueue.WorkItemFunc("greet", func(ctx context.Context) {
//		fmt.Println("hello")
//	}))
//
// # Key Concepts
//
// WorkItem: An opaque unit of work with a Name and a blocking Execute. Returned
// errors and panics are logged and reported, never propagated; the worker
// moves on to the next item.
//
// TaskQueueWorker: Owns the FIFO and the worker goroutine. Lifecycle is
// Stopped -> Running -> Draining -> Stopped, and a stopped worker can be
// started again. Submit on a stopped worker silently discards the item.
//
// # Shutdown
//
// Stop blocks until the worker has exited. Shutdown requests the same
// transition without waiting and is the one to use from inside a work item.
// Close implements io.Closer for use with defer.
//
// # Observability
//
// Logging goes through core.Logger (core.DefaultLogger, or logging/zaplog for
// zap). Metrics go through core.Metrics; observability/prometheus provides a
// Prometheus exporter and a Stats() snapshot poller. The config package wires
// all of these from a TOML file.
//
// For more details, see https://github.com/Swind/go-task-queue
package taskqueue
