package recordstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the given id.
var ErrNotFound = errors.New("record not found")

// Sort is a best-effort hint. Backends are free to ignore it for fields they
// cannot order server-side, so callers needing a guaranteed order must
// re-sort after fetch.
type Sort struct {
	Field      string
	Descending bool
}

type Query struct {
	Predicate Predicate
	Sort      *Sort
	Limit     int
}

type ChangeKind string

const (
	ChangePut    ChangeKind = "put"
	ChangeDelete ChangeKind = "delete"
)

// Change notifies that a record was written or removed. Only the id travels
// with the notification; consumers re-fetch the record, which keeps delivery
// at-least-once without a payload consistency problem.
type Change struct {
	RecordType string     `json:"record_type"`
	Kind       ChangeKind `json:"kind"`
	ID         string     `json:"id"`
}

type ChangeHandler func(ctx context.Context, change Change)

// Store is the contract the synchronization layer requires from the remote
// record store: per-record reads and writes, predicate-filtered queries
// without cross-record atomicity, and push subscriptions.
type Store interface {
	// Get loads the record with the given id into out, a struct pointer.
	Get(ctx context.Context, recordType, id string, out any) error

	// Put upserts the record. The caller supplies the id field, so retried
	// writes of the same logical record stay idempotent.
	Put(ctx context.Context, recordType string, record any) error

	Delete(ctx context.Context, recordType, id string) error

	// Query loads all records matching q into out, a pointer to a slice of
	// structs. The limit applies before any client-side re-sorting done by
	// the caller.
	Query(ctx context.Context, recordType string, q Query, out any) error

	// Count returns the number of records matching the predicate.
	Count(ctx context.Context, recordType string, pred Predicate) (int64, error)

	// Subscribe registers a handler for future changes of the record type.
	// Registration failures are retryable; delivery is at-least-once.
	Subscribe(ctx context.Context, recordType string, handler ChangeHandler) error
}
