package sync

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"countme-core/internal/domain"
)

// OpKind says what a queued operation does to the remote store. Creates and
// updates collapse into a single upsert because the push path is
// update-if-exists-else-insert either way.
type OpKind string

const (
	OpUpsert OpKind = "upsert"
	OpDelete OpKind = "delete"
)

// Operation is one pending entity mutation awaiting upload. Gen counts the
// coalesces folded into the operation; completion and retry bookkeeping are
// conditional on the generation observed when the attempt started, so a
// mutation arriving mid-upload keeps the operation queued.
type Operation struct {
	ID          string
	Entity      domain.EntityType
	EntityID    string
	Kind        OpKind
	Gen         int
	Attempts    int
	EnqueuedAt  time.Time
	LastAttempt time.Time
	NextAttempt time.Time
}

// Queue is a bounded FIFO of pending operations. At capacity the oldest
// operation by admission time is evicted to admit the new one; the local
// store remains the source of truth, so eviction only delays sync. Only the
// engine mutates the queue; everyone else observes.
type Queue struct {
	mu       sync.Mutex
	ops      []*Operation
	capacity int
}

const DefaultQueueCapacity = 1000

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{capacity: capacity}
}

// Enqueue admits an operation, coalescing with any queued operation for the
// same entity (the newer kind wins, attempts reset, the generation advances,
// admission time is kept). Returns the evicted operation when admission pushed
// one out.
func (q *Queue) Enqueue(entity domain.EntityType, entityID string, kind OpKind, now time.Time) (op Operation, evicted *Operation) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, existing := range q.ops {
		if existing.Entity == entity && existing.EntityID == entityID {
			existing.Kind = kind
			existing.Gen++
			existing.Attempts = 0
			existing.LastAttempt = time.Time{}
			existing.NextAttempt = time.Time{}
			return *existing, nil
		}
	}

	if len(q.ops) >= q.capacity {
		evicted = q.ops[0]
		q.ops = q.ops[1:]
	}

	admitted := &Operation{
		ID:         uuid.New().String(),
		Entity:     entity,
		EntityID:   entityID,
		Kind:       kind,
		EnqueuedAt: now,
	}
	q.ops = append(q.ops, admitted)
	return *admitted, evicted
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Snapshot returns copies, safe for callers to inspect.
func (q *Queue) Snapshot() []Operation {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Operation, len(q.ops))
	for i, op := range q.ops {
		out[i] = *op
	}
	return out
}

// Due returns copies of the operations whose backoff window has elapsed, in
// admission order.
func (q *Queue) Due(now time.Time) []Operation {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []Operation
	for _, op := range q.ops {
		if !op.NextAttempt.After(now) {
			due = append(due, *op)
		}
	}
	return due
}

// Defer records a failed attempt against the operation, scheduling its next
// try. It is a no-op, reporting false, when the operation is gone or was
// coalesced since gen was observed; the coalesced state supersedes the failed
// attempt's bookkeeping.
func (q *Queue) Defer(id string, gen, attempts int, last, next time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, op := range q.ops {
		if op.ID == id && op.Gen == gen {
			op.Attempts = attempts
			op.LastAttempt = last
			op.NextAttempt = next
			return true
		}
	}
	return false
}

// Complete removes the operation if its generation still matches gen. It
// reports false when the operation was coalesced since gen was observed, in
// which case it stays queued so the newer local revision still uploads.
func (q *Queue) Complete(id string, gen int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, op := range q.ops {
		if op.ID == id {
			if op.Gen != gen {
				return false
			}
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			return true
		}
	}
	return false
}
