package taskqueue_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	taskqueue "github.com/Swind/go-task-queue"
	"github.com/Swind/go-task-queue/core"
)

// Example demonstrates the basic usage with only one import.
func Example() {
	w := taskqueue.New(&taskqueue.WorkerConfig{Logger: core.NewNoOpLogger()})
	w.Start()

	w.Submit(taskqueue.WorkItemFunc("first", func(ctx context.Context) {
		fmt.Println("Task 1")
	}))
	w.Submit(taskqueue.WorkItemFunc("second", func(ctx context.Context) {
		fmt.Println("Task 2")
	}))
	w.Submit(taskqueue.WorkItemFunc("third", func(ctx context.Context) {
		fmt.Println("Task 3")
	}))

	// Stop waits for all three
	w.Stop()

	// Output:
	// Task 1
	// Task 2
	// Task 3
}

// ExampleTaskQueueWorker_Stop shows that submission order wins over item
// duration and that Stop waits for items submitted while others were running.
func ExampleTaskQueueWorker_Stop() {
	w := taskqueue.New(&taskqueue.WorkerConfig{Logger: core.NewNoOpLogger()})
	w.Start()

	sleeper := func(name string, d time.Duration) taskqueue.WorkItem {
		return taskqueue.WorkItemFunc(name, func(ctx context.Context) {
			time.Sleep(d)
			fmt.Println(name, "done")
		})
	}

	w.Submit(sleeper("t0", 40*time.Millisecond))
	w.Submit(sleeper("t1", 10*time.Millisecond))
	w.Submit(sleeper("t2", 20*time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	w.Submit(sleeper("t1b", 10*time.Millisecond))

	w.Stop()
	fmt.Println("stopped")

	// Output:
	// t0 done
	// t1 done
	// t2 done
	// t1b done
	// stopped
}

// ExampleTaskQueueWorker_Submit_failure shows that a failing item does not
// stop the worker.
func ExampleTaskQueueWorker_Submit_failure() {
	w := taskqueue.New(&taskqueue.WorkerConfig{
		Logger: core.NewNoOpLogger(),
		FailureHandler: core.FailureHandlerFunc(func(ctx context.Context, workerName string, err *core.ExecutionError) {
			fmt.Println("failed:", err.ItemName)
		}),
	})
	w.Start()

	w.Submit(taskqueue.NewWorkItem("A", func(ctx context.Context) error {
		return errors.New("boom")
	}))
	w.Submit(taskqueue.WorkItemFunc("B", func(ctx context.Context) { fmt.Println("B ran") }))
	w.Stop()

	// Output:
	// failed: A
	// B ran
}
