package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rinkhq/pickup-admin/internal/store"
)

// Store is a Redis-backed implementation of the store interface.
// Documents are stored as JSON blobs under per-document keys, a SET per
// collection indexes document ids for queries, and every successful
// write publishes the full updated document on a per-document pub/sub
// channel for change-notification subscriptions.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store instance
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	data, err := s.client.Get(ctx, docKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(data, id)
}

func (s *Store) Put(ctx context.Context, collection, id string, doc store.Document) error {
	norm, err := store.NormalizeDocument(doc)
	if err != nil {
		return err
	}
	norm["id"] = id

	data, err := json.Marshal(norm)
	if err != nil {
		return err
	}

	// Pipeline the write with the collection index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, docKey(collection, id), data, 0)
	pipe.SAdd(ctx, collectionIndexKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.publish(ctx, collection, id, data)
	return nil
}

func (s *Store) Patch(ctx context.Context, collection, id string, updates map[string]store.FieldUpdate) error {
	key := docKey(collection, id)
	var updated []byte

	// Optimistic read-modify-write: WATCH the document key so a
	// concurrent writer forces a retry instead of a lost update
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return store.ErrNotFound
			}
			return err
		}

		var doc store.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if err := store.ApplyUpdates(doc, updates); err != nil {
			return err
		}

		updated, err = json.Marshal(doc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.cfg.PatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		s.publish(ctx, collection, id, updated)
		return nil
	}
	return redis.TxFailedErr
}

func (s *Store) Query(ctx context.Context, collection string, query store.Query) ([]store.Document, error) {
	ids, err := s.client.SMembers(ctx, collectionIndexKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []store.Document{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(values))
	for i, val := range values {
		if val == nil {
			continue // index entry for a deleted document
		}
		doc, err := decodeDoc([]byte(val.(string)), ids[i])
		if err != nil {
			continue // skip invalid data
		}
		if store.MatchesFilters(doc, query.Filters) {
			docs = append(docs, doc)
		}
	}

	store.SortDocuments(docs, query)
	return docs, nil
}

func (s *Store) Subscribe(ctx context.Context, collection, id string, onChange func(store.Document), onError func(error)) (store.Unsubscribe, error) {
	subCtx, cancel := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(subCtx, changeChannel(collection, id))

	// Confirm the subscription is established before returning
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, err
	}

	go func() {
		for {
			msg, err := pubsub.ReceiveMessage(subCtx)
			if err != nil {
				if subCtx.Err() != nil || errors.Is(err, redis.ErrClosed) {
					return
				}
				// Subscription-level failures are reported without
				// tearing the subscription down
				if onError != nil {
					onError(err)
				}
				continue
			}

			doc, err := decodeDoc([]byte(msg.Payload), id)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(doc)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			_ = pubsub.Close()
		})
	}
	return unsubscribe, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.SRem(ctx, collectionIndexKey(collection), id)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) publish(ctx context.Context, collection, id string, data []byte) {
	// Best effort: a failed notification must not fail the write
	_ = s.client.Publish(ctx, changeChannel(collection, id), data).Err()
}

func decodeDoc(data []byte, id string) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc["id"] = id
	return doc, nil
}
