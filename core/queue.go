package core

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// queueEntry holds exactly one of: a WorkItem, the stop sentinel, or an
// idle barrier that the worker closes when it reaches it.
type queueEntry struct {
	item    WorkItem
	stop    bool
	barrier chan struct{}
}

func workEntry(item WorkItem) queueEntry { return queueEntry{item: item} }

func stopEntry() queueEntry { return queueEntry{stop: true} }

func barrierEntry(ch chan struct{}) queueEntry { return queueEntry{barrier: ch} }

func (e queueEntry) isWork() bool { return e.item != nil }

// entryQueue is a FIFO of queue entries.
//
// It has no lock of its own: every call happens under the owning worker's
// mutex, which also guards the lifecycle flags.
type entryQueue struct {
	entries []queueEntry
	items   int // entries holding a WorkItem
}

func newEntryQueue() entryQueue {
	return entryQueue{entries: make([]queueEntry, 0, defaultQueueCap)}
}

func (q *entryQueue) push(e queueEntry) {
	q.entries = append(q.entries, e)
	if e.isWork() {
		q.items++
	}
}

func (q *entryQueue) pop() (queueEntry, bool) {
	if len(q.entries) == 0 {
		return queueEntry{}, false
	}

	e := q.entries[0]
	// Drop the reference so the popped item is owned by the caller only
	q.entries[0] = queueEntry{}
	q.entries = q.entries[1:]
	if e.isWork() {
		q.items--
	}
	q.maybeCompact()

	return e, true
}

func (q *entryQueue) len() int {
	return len(q.entries)
}

// pendingItems counts queued work items, ignoring sentinels and barriers.
func (q *entryQueue) pendingItems() int {
	return q.items
}

func (q *entryQueue) maybeCompact() {
	n := len(q.entries)
	c := cap(q.entries)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.entries = make([]queueEntry, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	compacted := make([]queueEntry, n, newCap)
	copy(compacted, q.entries)
	q.entries = compacted
}
