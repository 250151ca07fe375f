package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rinkhq/pickup-admin/internal/store"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StoreSuite) TestPutAndGet() {
	err := s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Forum"})
	s.Require().NoError(err)

	doc, err := s.store.Get(s.ctx, "games", "g1")
	s.Require().NoError(err)
	s.Equal("g1", doc.ID())
	s.Equal("Forum", doc["venue"])
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "games", "missing")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestPutOverwrites() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Forum", "status": "upcoming"})
	err := s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Civic"})
	s.Require().NoError(err)

	doc, err := s.store.Get(s.ctx, "games", "g1")
	s.Require().NoError(err)
	s.Equal("Civic", doc["venue"])
	s.NotContains(doc, "status")
}

func (s *StoreSuite) TestGetReturnsCopy() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Forum"})

	doc, _ := s.store.Get(s.ctx, "games", "g1")
	doc["venue"] = "mutated"

	fresh, _ := s.store.Get(s.ctx, "games", "g1")
	s.Equal("Forum", fresh["venue"])
}

func (s *StoreSuite) TestPutNormalizesValues() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"maxPlayers": 20})

	doc, _ := s.store.Get(s.ctx, "games", "g1")
	s.Equal(float64(20), doc["maxPlayers"])
}

func (s *StoreSuite) TestPatchSet() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"status": "upcoming"})

	err := s.store.Patch(s.ctx, "games", "g1", map[string]store.FieldUpdate{
		"status": store.Set("completed"),
	})
	s.Require().NoError(err)

	doc, _ := s.store.Get(s.ctx, "games", "g1")
	s.Equal("completed", doc["status"])
}

func (s *StoreSuite) TestPatchDottedPath() {
	_ = s.store.Put(s.ctx, "users", "u1", store.Document{"name": "Alice"})

	err := s.store.Patch(s.ctx, "users", "u1", map[string]store.FieldUpdate{
		"cityData.halifax.gamesPlayed": store.Increment(1),
	})
	s.Require().NoError(err)

	doc, _ := s.store.Get(s.ctx, "users", "u1")
	v, ok := store.FieldValue(doc, "cityData.halifax.gamesPlayed")
	s.Require().True(ok)
	s.Equal(float64(1), v)
}

func (s *StoreSuite) TestPatchNotFound() {
	err := s.store.Patch(s.ctx, "games", "missing", map[string]store.FieldUpdate{
		"status": store.Set("completed"),
	})
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestPatchArrayOps() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{
		"waitlist": []any{map[string]any{"uid": "u1"}},
		"players":  []any{},
	})

	err := s.store.Patch(s.ctx, "games", "g1", map[string]store.FieldUpdate{
		"waitlist": store.ArrayRemove(map[string]any{"uid": "u1"}),
		"players":  store.ArrayUnion(map[string]any{"uid": "u1"}),
	})
	s.Require().NoError(err)

	doc, _ := s.store.Get(s.ctx, "games", "g1")
	s.Empty(doc["waitlist"])
	s.Len(doc["players"], 1)
}

func (s *StoreSuite) TestQueryFiltersAndOrders() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"cityId": "halifax", "date": "2026-01-15"})
	_ = s.store.Put(s.ctx, "games", "g2", store.Document{"cityId": "halifax", "date": "2026-03-01"})
	_ = s.store.Put(s.ctx, "games", "g3", store.Document{"cityId": "bridgewater", "date": "2026-02-10"})

	docs, err := s.store.Query(s.ctx, "games", store.Query{
		Filters:    []store.Filter{{Field: "cityId", Value: "halifax"}},
		OrderBy:    "date",
		Descending: true,
	})
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("g2", docs[0].ID())
	s.Equal("g1", docs[1].ID())
}

func (s *StoreSuite) TestQueryEmptyCollection() {
	docs, err := s.store.Query(s.ctx, "games", store.Query{})
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *StoreSuite) TestSubscribeReceivesWrites() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"status": "upcoming"})

	var received []store.Document
	unsub, err := s.store.Subscribe(s.ctx, "games", "g1", func(doc store.Document) {
		received = append(received, doc)
	}, nil)
	s.Require().NoError(err)
	defer unsub()

	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"status": "upcoming", "venue": "Forum"})
	_ = s.store.Patch(s.ctx, "games", "g1", map[string]store.FieldUpdate{
		"status": store.Set("completed"),
	})

	s.Require().Len(received, 2)
	s.Equal("Forum", received[0]["venue"])
	s.Equal("completed", received[1]["status"])
	s.Equal("g1", received[1].ID())
}

func (s *StoreSuite) TestSubscribeOnlyMatchingDocument() {
	var count int
	unsub, _ := s.store.Subscribe(s.ctx, "games", "g1", func(store.Document) {
		count++
	}, nil)
	defer unsub()

	_ = s.store.Put(s.ctx, "games", "g2", store.Document{"venue": "Forum"})
	_ = s.store.Put(s.ctx, "users", "g1", store.Document{"name": "Alice"})

	s.Zero(count)
}

func (s *StoreSuite) TestUnsubscribeStopsNotifications() {
	var count int
	unsub, _ := s.store.Subscribe(s.ctx, "games", "g1", func(store.Document) {
		count++
	}, nil)

	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Forum"})
	unsub()
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Civic"})

	s.Equal(1, count)
}

func (s *StoreSuite) TestUnsubscribeIsIdempotent() {
	unsub, _ := s.store.Subscribe(s.ctx, "games", "g1", func(store.Document) {}, nil)
	unsub()
	unsub()
}

func (s *StoreSuite) TestDeleteDoesNotNotify() {
	_ = s.store.Put(s.ctx, "games", "g1", store.Document{"venue": "Forum"})

	var count int
	unsub, _ := s.store.Subscribe(s.ctx, "games", "g1", func(store.Document) {
		count++
	}, nil)
	defer unsub()

	err := s.store.Delete(s.ctx, "games", "g1")
	s.Require().NoError(err)
	s.Zero(count)

	_, err = s.store.Get(s.ctx, "games", "g1")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestDeleteAbsentIsNoOp() {
	err := s.store.Delete(s.ctx, "games", "missing")
	s.NoError(err)
}
