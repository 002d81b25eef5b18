// Package dedupe tracks case ids already admitted to a batch.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 100_000

// Deduper records seen case ids so that each case is classified once per batch.
type Deduper interface {
	// SeenAndRecord atomically checks if caseID was seen and records it if not.
	// Returns true if caseID was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, caseID string) bool

	// Unrecord forgets caseID. Used when a recorded row could not be queued.
	Unrecord(ctx context.Context, caseID string)

	Size() int64
}

// inMemoryDeduper keeps case ids in a map plus an insertion-ordered list.
// Bounded mode (maxSize > 0) evicts the oldest id once full; unbounded mode
// (maxSize <= 0) keeps the map only.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	if d.maxSize > 0 {
		d.order = list.New()
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, caseID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[caseID]; exists {
		return true
	}

	if d.order == nil {
		d.seen[caseID] = nil
		d.size.Add(1)
		return false
	}

	if len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[caseID] = d.order.PushBack(caseID)
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, caseID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, exists := d.seen[caseID]
	if !exists {
		return
	}
	delete(d.seen, caseID)
	if el != nil {
		d.order.Remove(el)
	}
	d.size.Add(-1)
}

// evictOldest drops the earliest recorded id. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.seen, front.Value.(string))
	d.size.Add(-1)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
