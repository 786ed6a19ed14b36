package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"actsync/internal"
)

var ErrSyncing = errors.New("an error occoured while syncing, check the logs")

type (
	Event       = internal.Event
	Role        = internal.Role
	Destination = internal.Destination
)

// Repository is the persisted ledger. It is a full-collection store:
// the reconciler always loads everything, mutates in memory and saves
// everything back.
type Repository interface {
	LoadEvents(context.Context) ([]*Event, error)
	SaveEvents(context.Context, []*Event) error
	LoadSettings(context.Context) (*internal.Settings, error)
	SaveSettings(context.Context, *internal.Settings) error
}

// LedgerError wraps a ledger read or write failure. Unlike adapter
// errors it is surfaced to the caller of a sync pass: silently losing
// a ledger write risks duplicate sends or lost sync state.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// BucketResult is the per-role detail of one sync pass.
type BucketResult struct {
	Role  Role
	Count int
	Err   error
}

// Result is what a sync pass always returns, even on partial failure.
type Result struct {
	Synced  int
	Failed  int
	Buckets []BucketResult
}

// Reconciler moves pending events to destinations and commits the
// PENDING -> SYNCED transition only for confirmed deliveries.
type Reconciler struct {
	output io.Writer
	repo   Repository

	// mu serializes sync passes: a pass that arrives while another is
	// in flight queues behind it instead of interleaving bucket calls.
	mu sync.Mutex

	nowFunc func() time.Time
}

func New(output io.Writer, repo Repository) *Reconciler {
	if output == nil {
		output = os.Stdout
	}
	return &Reconciler{
		output:  output,
		repo:    repo,
		nowFunc: time.Now,
	}
}

// Sync reconciles the ledger against one destination. Events already
// marked for it are skipped; the rest are grouped into role buckets
// and pushed one batched call per bucket. A bucket failure is counted
// and left pending for the next pass, it never aborts the others.
// Only ledger persistence failures are returned as errors.
func (r *Reconciler) Sync(ctx context.Context, dest Destination) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{}

	events, err := r.repo.LoadEvents(ctx)
	if err != nil {
		return res, &LedgerError{Op: "load", Err: err}
	}

	var unsynced []*Event
	for _, e := range events {
		if !e.SyncedTo(dest.Name()) {
			unsynced = append(unsynced, e)
		}
	}
	if len(unsynced) == 0 {
		logf(r.output, dest.Name(), "Nothing to sync")
		return res, nil
	}

	buckets := bucketByRole(unsynced)

	for _, role := range internal.Roles {
		bucket := buckets[role]
		if len(bucket) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		logf(r.output, dest.Name(), "Pushing %d %s event(s)...", len(bucket), role)

		if err := dest.Push(ctx, role, bucket); err != nil {
			logf(r.output, dest.Name(), "Unable to push %s bucket: %v", role, err)
			res.Failed += len(bucket)
			res.Buckets = append(res.Buckets, BucketResult{Role: role, Count: len(bucket), Err: err})
			continue
		}

		now := r.nowFunc().UTC()
		for _, e := range bucket {
			e.MarkSynced(dest.Name(), now)
		}
		if err := r.repo.SaveEvents(ctx, events); err != nil {
			// The in-memory marks die with this pass; the persisted
			// state still shows the bucket pending, so the next pass
			// re-selects it.
			res.Buckets = append(res.Buckets, BucketResult{Role: role, Count: len(bucket), Err: err})
			return res, &LedgerError{Op: "save", Err: err}
		}

		res.Synced += len(bucket)
		res.Buckets = append(res.Buckets, BucketResult{Role: role, Count: len(bucket)})
	}

	logf(r.output, dest.Name(), "Sync complete: %d synced, %d failed", res.Synced, res.Failed)
	return res, nil
}

// SyncAll runs Sync for each destination in order. Adapter failures
// are already folded into the results; only ledger errors propagate,
// and even then the remaining destinations are still attempted.
func (r *Reconciler) SyncAll(ctx context.Context, dests []Destination) (map[string]*Result, error) {
	results := make(map[string]*Result, len(dests))

	var firstErr error
	for _, dest := range dests {
		res, err := r.Sync(ctx, dest)
		results[dest.Name()] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

func bucketByRole(events []*Event) map[Role][]*Event {
	buckets := make(map[Role][]*Event, len(internal.Roles))
	for _, e := range events {
		role := e.Role
		if _, ok := roleKnown[role]; !ok {
			role = internal.RoleOther
		}
		buckets[role] = append(buckets[role], e)
	}
	return buckets
}

var roleKnown = func() map[Role]struct{} {
	m := make(map[Role]struct{}, len(internal.Roles))
	for _, r := range internal.Roles {
		m[r] = struct{}{}
	}
	return m
}()
