// Package sync implements the offline-first synchronization engine: a bounded
// queue of pending uploads, exponential retry, and a push/pull cycle against a
// remote document store with last-write-wins conflict resolution.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	stdsync "sync"
	"time"

	"countme-core/internal/domain"
	"countme-core/internal/remote"
)

// LocalStore is the engine's view of the device-local database. MarkSynced
// flips the row to synced only while its last-modified stamp still equals
// modified; a row mutated since the export stays pending.
type LocalStore interface {
	Export(ctx context.Context, entity domain.EntityType, id string) (domain.Document, error)
	ApplyRemote(ctx context.Context, doc domain.Document) error
	MarkSynced(ctx context.Context, entity domain.EntityType, id string, modified time.Time) error
}

// Report summarizes one sync cycle. Failures holds the per-operation errors
// that did not abort the cycle; the cycle-level error (network, auth) comes
// back from Sync itself.
type Report struct {
	Pushed   int
	Pulled   int
	Skipped  int
	Deferred int
	Failures []error
}

// Engine drives synchronization between the local store and the remote
// document store. Sync is serialized: overlapping calls queue up on the
// engine's mutex rather than interleave.
type Engine struct {
	mu     stdsync.Mutex
	store  LocalStore
	remote remote.DocumentStore
	auth   remote.AuthProvider
	reach  remote.Reachability
	queue  *Queue
	policy RetryPolicy
	logger *log.Logger
	now    func() time.Time
}

func NewEngine(store LocalStore, docs remote.DocumentStore, auth remote.AuthProvider, reach remote.Reachability, queue *Queue, policy RetryPolicy, logger *log.Logger) *Engine {
	if reach == nil {
		reach = remote.AlwaysOnline{}
	}
	if queue == nil {
		queue = NewQueue(DefaultQueueCapacity)
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Engine{
		store:  store,
		remote: docs,
		auth:   auth,
		reach:  reach,
		queue:  queue,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue records a pending mutation for upload. Safe to call from any
// goroutine, including during an active Sync.
func (e *Engine) Enqueue(entity domain.EntityType, entityID string, kind OpKind) {
	_, evicted := e.queue.Enqueue(entity, entityID, kind, e.now())
	if evicted != nil {
		e.logger.Printf("queue full, evicted %s %s %s", evicted.Kind, evicted.Entity, evicted.EntityID)
	}
}

func (e *Engine) QueueLen() int { return e.queue.Len() }

func (e *Engine) QueueSnapshot() []Operation { return e.queue.Snapshot() }

// Sync runs one full cycle: push every due queued operation, then pull every
// collection. A failed operation never blocks its siblings; only an offline
// network or missing authentication aborts the cycle.
func (e *Engine) Sync(ctx context.Context) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.reach.Online(ctx) {
		return nil, ErrNetworkUnavailable
	}
	userID, err := e.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	report := &Report{}
	e.push(ctx, userID, report)
	e.pull(ctx, userID, report)

	e.logger.Printf("cycle done: pushed=%d pulled=%d skipped=%d deferred=%d failures=%d",
		report.Pushed, report.Pulled, report.Skipped, report.Deferred, len(report.Failures))
	return report, nil
}

func (e *Engine) push(ctx context.Context, userID string, report *Report) {
	for _, op := range e.queue.Due(e.now()) {
		if ctx.Err() != nil {
			return
		}
		modified, err := e.attempt(ctx, userID, op)
		if err == nil {
			// Complete fails when the entity was mutated mid-upload; the
			// coalesced operation then re-uploads the newer revision and the
			// row must stay pending.
			if e.queue.Complete(op.ID, op.Gen) && op.Kind == OpUpsert {
				if err := e.store.MarkSynced(ctx, op.Entity, op.EntityID, modified); err != nil {
					e.logger.Printf("mark synced %s %s: %v", op.Entity, op.EntityID, err)
				}
			}
			report.Pushed++
			continue
		}

		var ownErr *OwnershipError
		if errors.As(err, &ownErr) {
			// Integrity violation, retrying cannot fix it.
			e.queue.Complete(op.ID, op.Gen)
			report.Failures = append(report.Failures, err)
			e.logger.Printf("dropped %s %s: %v", op.Entity, op.EntityID, err)
			continue
		}
		if errors.Is(err, ErrConflictResolved) {
			e.queue.Complete(op.ID, op.Gen)
			report.Pulled++
			continue
		}

		attempts := op.Attempts + 1
		if e.policy.Exhausted(attempts) {
			if e.queue.Complete(op.ID, op.Gen) {
				report.Failures = append(report.Failures, &RetryExhaustedError{
					Entity:   op.Entity,
					EntityID: op.EntityID,
					Attempts: attempts,
					Last:     err,
				})
				e.logger.Printf("gave up on %s %s after %d attempts: %v", op.Entity, op.EntityID, attempts, err)
			}
			continue
		}
		if e.queue.Defer(op.ID, op.Gen, attempts, e.now(), e.now().Add(e.policy.Delay(attempts))) {
			report.Deferred++
			e.logger.Printf("deferred %s %s (attempt %d): %v", op.Entity, op.EntityID, attempts, err)
		}
	}
}

// ErrConflictResolved signals internally that an upload attempt found a newer
// remote revision and resolved by pulling it instead of pushing.
var ErrConflictResolved = errors.New("conflict resolved in favor of remote")

// remoteEnvelope is the subset of any remote document the engine needs for
// ownership and recency checks before full decoding.
type remoteEnvelope struct {
	UserID       string    `json:"user_id"`
	LastModified time.Time `json:"last_modified"`
}

// attempt executes one operation against the remote store. On a successful
// upsert it returns the last-modified stamp of the exported revision, so the
// caller marks exactly that revision synced.
func (e *Engine) attempt(ctx context.Context, userID string, op Operation) (time.Time, error) {
	if op.Kind == OpDelete {
		err := e.remote.Delete(ctx, op.Entity, op.EntityID)
		if errors.Is(err, remote.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	doc, err := e.store.Export(ctx, op.Entity, op.EntityID)
	if err != nil {
		return time.Time{}, fmt.Errorf("export %s %s: %w", op.Entity, op.EntityID, err)
	}
	if doc.DocOwner() != userID {
		return time.Time{}, &OwnershipError{Entity: op.Entity, EntityID: op.EntityID, Want: userID, Got: doc.DocOwner()}
	}

	raw, err := e.remote.Get(ctx, op.Entity, op.EntityID)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		// First upload of this entity.
	case err != nil:
		return time.Time{}, fmt.Errorf("get remote %s %s: %w", op.Entity, op.EntityID, err)
	default:
		var env remoteEnvelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.LastModified.After(doc.DocModified()) {
			// Remote revision is newer. Last write wins: take theirs.
			decoded, decErr := domain.DecodeDocument(op.Entity, raw)
			if decErr != nil {
				return time.Time{}, &MalformedDocumentError{Collection: op.Entity, Reason: decErr}
			}
			if decoded.DocOwner() != userID {
				return time.Time{}, &OwnershipError{Entity: op.Entity, EntityID: op.EntityID, Want: userID, Got: decoded.DocOwner()}
			}
			if applyErr := e.store.ApplyRemote(ctx, decoded); applyErr != nil {
				return time.Time{}, fmt.Errorf("apply remote %s %s: %w", op.Entity, op.EntityID, applyErr)
			}
			return time.Time{}, ErrConflictResolved
		}
	}

	if err := e.remote.Put(ctx, op.Entity, op.EntityID, doc); err != nil {
		return time.Time{}, fmt.Errorf("put %s %s: %w", op.Entity, op.EntityID, err)
	}
	return doc.DocModified(), nil
}

func (e *Engine) pull(ctx context.Context, userID string, report *Report) {
	for _, collection := range domain.SyncedCollections() {
		if ctx.Err() != nil {
			return
		}
		raws, err := e.remote.List(ctx, collection, userID)
		if err != nil {
			report.Failures = append(report.Failures, fmt.Errorf("list %s: %w", collection, err))
			e.logger.Printf("list %s: %v", collection, err)
			continue
		}

		for _, raw := range raws {
			doc, err := domain.DecodeDocument(collection, raw)
			if err != nil {
				report.Skipped++
				report.Failures = append(report.Failures, &MalformedDocumentError{Collection: collection, Reason: err})
				e.logger.Printf("skipped malformed %s record: %v", collection, err)
				continue
			}
			if doc.DocOwner() != userID {
				// Server-side filtering failed or the record is mislabeled.
				report.Skipped++
				e.logger.Printf("skipped %s %s: owned by %q, authenticated as %q", collection, doc.DocID(), doc.DocOwner(), userID)
				continue
			}

			local, err := e.store.Export(ctx, collection, doc.DocID())
			if err == nil && !doc.DocModified().After(local.DocModified()) {
				report.Skipped++
				continue
			}

			if err := e.store.ApplyRemote(ctx, doc); err != nil {
				report.Failures = append(report.Failures, fmt.Errorf("apply %s %s: %w", collection, doc.DocID(), err))
				e.logger.Printf("apply %s %s: %v", collection, doc.DocID(), err)
				continue
			}
			report.Pulled++
		}
	}
}
