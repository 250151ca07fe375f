package projection

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rinkhq/pickup-admin/internal/store"
)

// State is the lifecycle phase of a projection's subscription
type State string

const (
	StateUnsubscribed State = "unsubscribed"
	StateSubscribing  State = "subscribing"
	StateLive         State = "live"
)

// Projection keeps an in-memory decoded copy of a single document in
// sync with the store. Load checks the document exists, seeds the
// current value from a point read and then installs a change
// subscription that replaces the value on every update.
//
// A projection holds at most one live subscription. Loading a different
// document tears the previous subscription down first. Subscription
// errors are logged and reported through the Load callback but never
// tear the subscription down; the projection keeps serving the last
// good value.
type Projection[T any] struct {
	store      store.Store
	collection string
	logger     *slog.Logger

	mu          sync.RWMutex
	state       State
	id          string
	current     *T
	unsubscribe store.Unsubscribe
}

// New creates a projection over one document of the given collection
func New[T any](st store.Store, collection string, logger *slog.Logger) *Projection[T] {
	return &Projection[T]{
		store:      st,
		collection: collection,
		logger:     logger.With(slog.String("component", "projection"), slog.String("collection", collection)),
		state:      StateUnsubscribed,
	}
}

// Load points the projection at a document and starts syncing it.
// Returns store.ErrNotFound without subscribing when the document does
// not exist. onError, if non-nil, receives subscription-level failures;
// the subscription itself stays up. Returns the seed value.
func (p *Projection[T]) Load(ctx context.Context, id string, onError func(error)) (*T, error) {
	p.mu.Lock()
	p.teardownLocked()
	p.state = StateSubscribing
	p.id = id
	p.mu.Unlock()

	doc, err := p.store.Get(ctx, p.collection, id)
	if err != nil {
		p.mu.Lock()
		p.state = StateUnsubscribed
		p.mu.Unlock()
		return nil, err
	}
	seed, err := store.Decode[T](doc)
	if err != nil {
		p.mu.Lock()
		p.state = StateUnsubscribed
		p.mu.Unlock()
		return nil, err
	}

	unsubscribe, err := p.store.Subscribe(ctx, p.collection, id,
		func(doc store.Document) {
			p.apply(doc, onError)
		},
		func(err error) {
			p.logger.Warn("subscription error",
				slog.String("id", id),
				slog.String("error", err.Error()))
			if onError != nil {
				onError(err)
			}
		},
	)
	if err != nil {
		p.mu.Lock()
		p.state = StateUnsubscribed
		p.mu.Unlock()
		return nil, err
	}

	p.mu.Lock()
	// A concurrent Load or Unsubscribe may have moved the projection on
	// while we were subscribing
	if p.id != id || p.state != StateSubscribing {
		p.mu.Unlock()
		unsubscribe()
		return &seed, nil
	}
	p.current = &seed
	p.unsubscribe = unsubscribe
	p.state = StateLive
	p.mu.Unlock()

	return &seed, nil
}

// apply replaces the current value from an incoming change notification.
// A document that fails to decode is reported and dropped, keeping the
// last good value.
func (p *Projection[T]) apply(doc store.Document, onError func(error)) {
	value, err := store.Decode[T](doc)
	if err != nil {
		p.logger.Warn("failed to decode change notification",
			slog.String("id", doc.ID()),
			slog.String("error", err.Error()))
		if onError != nil {
			onError(err)
		}
		return
	}

	p.mu.Lock()
	if p.state == StateLive && p.id == doc.ID() {
		p.current = &value
	}
	p.mu.Unlock()
}

// Current returns the latest synced value, or false if nothing is loaded
func (p *Projection[T]) Current() (*T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil, false
	}
	return p.current, true
}

// State returns the projection's subscription state
func (p *Projection[T]) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// ID returns the id of the loaded document, empty if none
func (p *Projection[T]) ID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

// Unsubscribe tears down the live subscription. Safe to call repeatedly
// and before any Load. The last synced value is dropped.
func (p *Projection[T]) Unsubscribe() {
	p.mu.Lock()
	p.teardownLocked()
	p.state = StateUnsubscribed
	p.id = ""
	p.current = nil
	p.mu.Unlock()
}

func (p *Projection[T]) teardownLocked() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
