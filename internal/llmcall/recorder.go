package llmcall

import (
	"sync"

	"github.com/schemaforge/schemaforge/internal/providers"
)

const defaultCapacity = 512

// Recorder keeps recent calls in a fixed-size ring buffer. Recording is
// non-blocking and safe for concurrent use; when the buffer fills, the
// oldest calls are dropped.
type Recorder struct {
	mu       sync.Mutex
	calls    []*Call
	next     int
	total    int
	capacity int
}

// NewRecorder creates a recorder retaining up to capacity calls
// (defaultCapacity when capacity <= 0).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{
		calls:    make([]*Call, capacity),
		capacity: capacity,
	}
}

// Record captures a provider result.
func (r *Recorder) Record(result *providers.CompletionResult, opts RecordOptions) {
	r.RecordCall(FromCompletionResult(result, opts))
}

// RecordCall captures an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if call == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[r.next] = call
	r.next = (r.next + 1) % r.capacity
	r.total++
}

// Recent returns up to limit calls, newest first. limit <= 0 returns all
// retained calls.
func (r *Recorder) Recent(limit int) []*Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.total
	if n > r.capacity {
		n = r.capacity
	}
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*Call, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + r.capacity) % r.capacity
		out = append(out, r.calls[idx])
	}
	return out
}

// Total returns the number of calls recorded over the recorder's lifetime,
// including any that have rotated out of the buffer.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
