package core

import (
	"context"
	"fmt"
	"testing"
)

func namedItem(name string) WorkItem {
	return WorkItemFunc(name, func(ctx context.Context) {})
}

// TestEntryQueue_FIFO verifies entries come out in push order
// Given: An entry queue with items, a barrier and a stop sentinel
// When: Entries are popped until empty
// Then: They come out in push order and pendingItems counts only work items
func TestEntryQueue_FIFO(t *testing.T) {
	// Arrange
	q := newEntryQueue()
	barrier := make(chan struct{})

	q.push(workEntry(namedItem("a")))
	q.push(barrierEntry(barrier))
	q.push(workEntry(namedItem("b")))
	q.push(stopEntry())

	// Assert - counts
	if got := q.len(); got != 4 {
		t.Fatalf("len() = %d, want 4", got)
	}
	if got := q.pendingItems(); got != 2 {
		t.Fatalf("pendingItems() = %d, want 2", got)
	}

	// Act and Assert - order
	e, ok := q.pop()
	if !ok || !e.isWork() || e.item.Name() != "a" {
		t.Fatalf("pop 1 = %+v, want item a", e)
	}
	e, ok = q.pop()
	if !ok || e.barrier != barrier {
		t.Fatalf("pop 2 = %+v, want barrier", e)
	}
	e, ok = q.pop()
	if !ok || e.item.Name() != "b" {
		t.Fatalf("pop 3 = %+v, want item b", e)
	}
	if got := q.pendingItems(); got != 0 {
		t.Fatalf("pendingItems() = %d after popping items, want 0", got)
	}
	e, ok = q.pop()
	if !ok || !e.stop || e.isWork() {
		t.Fatalf("pop 4 = %+v, want stop sentinel", e)
	}

	if _, ok := q.pop(); ok {
		t.Fatal("pop on empty queue returned ok")
	}
}

// TestEntryQueue_PopReleasesSlot verifies popped entries are not retained
// Given: A queue with one item
// When: The item is popped
// Then: The backing array slot no longer references it
func TestEntryQueue_PopReleasesSlot(t *testing.T) {
	q := newEntryQueue()
	q.push(workEntry(namedItem("a")))
	backing := q.entries[:1]

	q.pop()

	if backing[0].item != nil {
		t.Error("popped slot still references the work item")
	}
}

// TestEntryQueue_Compaction verifies capacity shrinks once mostly empty
// Given: A queue with 100 entries in a backing array of capacity 1024
// When: One entry is popped
// Then: The backing array is halved while the remaining entries keep their order
func TestEntryQueue_Compaction(t *testing.T) {
	// Arrange
	q := entryQueue{entries: make([]queueEntry, 0, 1024)}
	for i := 0; i < 100; i++ {
		q.push(workEntry(namedItem(fmt.Sprintf("item-%d", i))))
	}

	// Act
	q.pop()

	// Assert
	if got, want := cap(q.entries), (1024-1)/2; got != want {
		t.Fatalf("cap after pop = %d, want %d", got, want)
	}
	if got := q.pendingItems(); got != 99 {
		t.Errorf("pendingItems() = %d, want 99", got)
	}
	for i := 1; i < 100; i++ {
		e, ok := q.pop()
		if !ok || e.item.Name() != fmt.Sprintf("item-%d", i) {
			t.Fatalf("pop = %+v, want item-%d", e, i)
		}
	}
	if got := q.len(); got != 0 {
		t.Errorf("len() = %d after popping everything, want 0", got)
	}
}

// TestEntryQueue_CompactionResetsWhenEmpty verifies a large empty queue is reallocated
// Given: A single entry in a backing array of capacity 1024
// When: It is popped
// Then: The queue falls back to the default capacity
func TestEntryQueue_CompactionResetsWhenEmpty(t *testing.T) {
	q := entryQueue{entries: make([]queueEntry, 0, 1024)}
	q.push(workEntry(namedItem("only")))

	q.pop()

	if got := cap(q.entries); got != defaultQueueCap {
		t.Errorf("cap after emptying = %d, want %d", got, defaultQueueCap)
	}
}
