package chart

import (
	"runtime"
	"sync"
	"time"
)

const (
	// DefaultPruneThreshold is the queue length above which samples are pruned.
	DefaultPruneThreshold = 5
	// DefaultQuantiles keeps quartile members when pruning.
	DefaultQuantiles = 4
)

// PointerSample is one pointer-move event.
type PointerSample struct {
	XPixel    float64
	Timestamp time.Time
	Gen       uint64 // queue generation at push time
}

// PruneQuantiles reduces samples to the members at the 0/q, 1/q, ... (q-1)/q
// positions plus the most recent one, preserving order. The result never
// holds more than q+1 samples.
func PruneQuantiles(samples []PointerSample, q int) []PointerSample {
	n := len(samples)
	if q < 1 {
		q = 1
	}
	if n <= q+1 {
		return samples
	}
	out := make([]PointerSample, 0, q+1)
	last := -1
	for k := 0; k < q; k++ {
		idx := k * n / q
		if idx == last || idx >= n-1 {
			continue
		}
		out = append(out, samples[idx])
		last = idx
	}
	return append(out, samples[n-1])
}

// PointerQueue throttles pointer-move handling. Samples are queued and a
// single drain goroutine feeds the newest one to the handler, yielding between
// items. Only one drain runs at a time.
type PointerQueue struct {
	mu         sync.Mutex
	idle       *sync.Cond
	samples    []PointerSample
	processing bool
	closed     bool
	gen        uint64

	handle    func(PointerSample)
	now       func() time.Time
	yield     func()
	threshold int
	quantiles int
}

// QueueOption customises a PointerQueue.
type QueueOption func(*PointerQueue)

// WithClock replaces time.Now for sample timestamps.
func WithClock(now func() time.Time) QueueOption { return func(q *PointerQueue) { q.now = now } }

// WithYield replaces runtime.Gosched between drained samples.
func WithYield(yield func()) QueueOption { return func(q *PointerQueue) { q.yield = yield } }

// WithPruning sets the prune threshold and quantile count.
func WithPruning(threshold, quantiles int) QueueOption {
	return func(q *PointerQueue) {
		if threshold > 0 {
			q.threshold = threshold
		}
		if quantiles > 0 {
			q.quantiles = quantiles
		}
	}
}

// NewPointerQueue returns a queue feeding handle.
func NewPointerQueue(handle func(PointerSample), opts ...QueueOption) *PointerQueue {
	q := &PointerQueue{
		handle:    handle,
		now:       time.Now,
		yield:     runtime.Gosched,
		threshold: DefaultPruneThreshold,
		quantiles: DefaultQuantiles,
	}
	q.idle = sync.NewCond(&q.mu)
	for _, o := range opts {
		o(q)
	}
	return q
}

// Push queues a pointer position and starts the drain if none is running.
func (q *PointerQueue) Push(xPixel float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.samples = append(q.samples, PointerSample{XPixel: xPixel, Timestamp: q.now(), Gen: q.gen})
	if len(q.samples) > q.threshold {
		q.samples = PruneQuantiles(q.samples, q.quantiles)
	}
	if !q.processing {
		q.processing = true
		go q.drain()
	}
}

func (q *PointerQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.samples) == 0 || q.closed {
			q.samples = nil
			q.processing = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		// Older samples are stale once the newest has been handled.
		s := q.samples[len(q.samples)-1]
		q.samples = q.samples[:0]
		q.mu.Unlock()

		q.handle(s)
		q.yield()
	}
}

// Len returns the number of queued samples.
func (q *PointerQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples)
}

// Drop discards queued samples and marks any in-flight sample as stale.
func (q *PointerQueue) Drop() {
	q.mu.Lock()
	q.samples = nil
	q.gen++
	q.mu.Unlock()
}

// Current reports whether s was pushed after the last Drop.
func (q *PointerQueue) Current(s PointerSample) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.closed && s.Gen == q.gen
}

// Close drops pending samples and ignores later pushes.
func (q *PointerQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.samples = nil
	q.gen++
	q.mu.Unlock()
}

// Wait blocks until no drain is running.
func (q *PointerQueue) Wait() {
	q.mu.Lock()
	for q.processing {
		q.idle.Wait()
	}
	q.mu.Unlock()
}
