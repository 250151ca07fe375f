package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist.
// Services translate it into their collection-specific sentinel.
var ErrNotFound = errors.New("document not found")

// Document is a stored document as a generic field map. Values are
// JSON-normalized: numbers are float64, nested objects are
// map[string]any, arrays are []any. Every document returned by a Store
// carries its id under the "id" field.
type Document map[string]any

// ID returns the document's id field, if present
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

type updateOp int

const (
	opSet updateOp = iota
	opIncrement
	opArrayUnion
	opArrayRemove
)

// FieldUpdate describes a single field mutation within a Patch.
// Construct with Set, Increment, ArrayUnion or ArrayRemove.
type FieldUpdate struct {
	op    updateOp
	value any
	delta float64
}

// Set replaces the field with a literal value (nil clears it to null)
func Set(v any) FieldUpdate {
	return FieldUpdate{op: opSet, value: v}
}

// Increment atomically adds n to a numeric field, treating a missing
// field as zero
func Increment(n int) FieldUpdate {
	return FieldUpdate{op: opIncrement, delta: float64(n)}
}

// ArrayUnion appends the value to an array field unless an equal element
// is already present. Equality is value equality over the canonical JSON
// encoding, not identity.
func ArrayUnion(v any) FieldUpdate {
	return FieldUpdate{op: opArrayUnion, value: v}
}

// ArrayRemove removes all elements equal to the value from an array
// field. Equality is value equality: an element is removed only if it
// matches the given value exactly, so removal keys must come from the
// most recent store read.
func ArrayRemove(v any) FieldUpdate {
	return FieldUpdate{op: opArrayRemove, value: v}
}

// Filter is an equality constraint on a (possibly dotted) field path
type Filter struct {
	Field string
	Value any
}

// Query describes filtering and ordering for a collection scan
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
}

// Unsubscribe cancels a change-notification subscription. It is safe to
// call more than once; no callbacks fire after it returns.
type Unsubscribe func()

// Store is the document store contract the engine is written against:
// keyed documents with partial-field patches, set-like array
// union/remove, atomic numeric increments and per-document change
// notifications. Field paths in Patch and Filter may be dotted to reach
// nested maps (e.g. "cityData.halifax.gamesPlayed").
type Store interface {
	// Get returns the document, or ErrNotFound
	Get(ctx context.Context, collection, id string) (Document, error)

	// Put fully overwrites the document, creating it if absent
	Put(ctx context.Context, collection, id string, doc Document) error

	// Patch applies the field updates to an existing document as a
	// single write, or returns ErrNotFound
	Patch(ctx context.Context, collection, id string, updates map[string]FieldUpdate) error

	// Query returns the documents in the collection matching the query
	Query(ctx context.Context, collection string, query Query) ([]Document, error)

	// Subscribe installs a change-notification callback for one
	// document. onChange receives the full updated document after every
	// successful Put or Patch; onError receives subscription-level
	// failures without tearing the subscription down. Deletes do not
	// notify.
	Subscribe(ctx context.Context, collection, id string, onChange func(Document), onError func(error)) (Unsubscribe, error)

	// Delete removes the document; deleting an absent document is a no-op
	Delete(ctx context.Context, collection, id string) error
}
