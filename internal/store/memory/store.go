package memory

import (
	"context"
	"sync"

	"github.com/rinkhq/pickup-admin/internal/store"
)

// Store is an in-memory implementation of the store interface, used in
// tests and local development. Change notifications are delivered
// synchronously on the writing goroutine, so tests observe updates
// deterministically.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
	subscribers map[docKey]map[int]*subscriber
	nextSubID   int
}

type docKey struct {
	collection string
	id         string
}

type subscriber struct {
	onChange func(store.Document)
	onError  func(error)
}

// New creates a new in-memory store instance
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]store.Document),
		subscribers: make(map[docKey]map[int]*subscriber),
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneWithID(doc, id)
}

func (s *Store) Put(ctx context.Context, collection, id string, doc store.Document) error {
	norm, err := store.NormalizeDocument(doc)
	if err != nil {
		return err
	}
	norm["id"] = id

	s.mu.Lock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]store.Document)
		s.collections[collection] = col
	}
	col[id] = norm
	subs := s.subscriberSnapshot(collection, id)
	s.mu.Unlock()

	s.notify(subs, norm, id)
	return nil
}

func (s *Store) Patch(ctx context.Context, collection, id string, updates map[string]store.FieldUpdate) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	if err := store.ApplyUpdates(doc, updates); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscriberSnapshot(collection, id)
	s.mu.Unlock()

	s.notify(subs, doc, id)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, query store.Query) ([]store.Document, error) {
	s.mu.RLock()
	docs := make([]store.Document, 0, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		clone, err := cloneWithID(doc, id)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		if store.MatchesFilters(clone, query.Filters) {
			docs = append(docs, clone)
		}
	}
	s.mu.RUnlock()

	store.SortDocuments(docs, query)
	return docs, nil
}

func (s *Store) Subscribe(ctx context.Context, collection, id string, onChange func(store.Document), onError func(error)) (store.Unsubscribe, error) {
	key := docKey{collection: collection, id: id}

	s.mu.Lock()
	subs, ok := s.subscribers[key]
	if !ok {
		subs = make(map[int]*subscriber)
		s.subscribers[key] = subs
	}
	subID := s.nextSubID
	s.nextSubID++
	subs[subID] = &subscriber{onChange: onChange, onError: onError}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[key], subID)
	}
	return unsubscribe, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

// subscriberSnapshot copies the current subscriber set so callbacks run
// outside the lock. Must be called with the lock held.
func (s *Store) subscriberSnapshot(collection, id string) []*subscriber {
	subs := s.subscribers[docKey{collection: collection, id: id}]
	if len(subs) == 0 {
		return nil
	}
	out := make([]*subscriber, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub)
	}
	return out
}

func (s *Store) notify(subs []*subscriber, doc store.Document, id string) {
	if len(subs) == 0 {
		return
	}
	for _, sub := range subs {
		clone, err := cloneWithID(doc, id)
		if err != nil {
			if sub.onError != nil {
				sub.onError(err)
			}
			continue
		}
		sub.onChange(clone)
	}
}

func cloneWithID(doc store.Document, id string) (store.Document, error) {
	clone, err := store.NormalizeDocument(doc)
	if err != nil {
		return nil, err
	}
	clone["id"] = id
	return clone, nil
}
