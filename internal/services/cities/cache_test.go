package cities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rinkhq/pickup-admin/internal/dependencies/mocks"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/testutil"
)

type CacheSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	fetchCount int
	fetchErr   error
	fetchList  []model.City
	cache      *Cache
	ctx        context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.fetchCount = 0
	s.fetchErr = nil
	s.fetchList = []model.City{{ID: "halifax", Name: "Halifax"}}
	s.cache = NewCache(s.fetch, s.clock, DefaultTTL, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *CacheSuite) fetch(ctx context.Context) ([]model.City, error) {
	s.fetchCount++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.fetchList, nil
}

func (s *CacheSuite) TestFirstReadFetches() {
	cities, stale, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.False(stale)
	s.Require().Len(cities, 1)
	s.Equal(model.CityID("halifax"), cities[0].ID)
	s.Equal(1, s.fetchCount)
}

func (s *CacheSuite) TestReadWithinTTLServesCache() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.clock.Advance(23*time.Hour + 59*time.Minute)

	_, stale, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.False(stale)
	s.Equal(1, s.fetchCount)
}

func (s *CacheSuite) TestReadPastTTLRefetches() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.clock.Advance(24*time.Hour + time.Minute)

	_, stale, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.False(stale)
	s.Equal(2, s.fetchCount)
}

func (s *CacheSuite) TestForceBypassesCache() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	_, stale, err := s.cache.Get(s.ctx, true)
	s.Require().NoError(err)
	s.False(stale)
	s.Equal(2, s.fetchCount)
}

func (s *CacheSuite) TestExpiredReadServesStaleOnFetchFailure() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	s.fetchErr = errors.New("store unreachable")

	cities, stale, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.True(stale)
	s.Require().Len(cities, 1)
	s.Equal(model.CityID("halifax"), cities[0].ID)
}

func (s *CacheSuite) TestFetchFailurePropagatesWithoutCache() {
	s.fetchErr = errors.New("store unreachable")

	_, _, err := s.cache.Get(s.ctx, false)
	s.ErrorContains(err, "store unreachable")
}

func (s *CacheSuite) TestInvalidateForcesRefetch() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.cache.Invalidate()

	_, _, err = s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.Equal(2, s.fetchCount)
}

func (s *CacheSuite) TestInvalidateDropsStaleFallback() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.cache.Invalidate()
	s.fetchErr = errors.New("store unreachable")

	// Nothing cached anymore, so the failure propagates
	_, _, err = s.cache.Get(s.ctx, false)
	s.ErrorContains(err, "store unreachable")
}

func (s *CacheSuite) TestSuccessfulRefetchResetsTTL() {
	_, _, err := s.cache.Get(s.ctx, false)
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	_, _, err = s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.Equal(2, s.fetchCount)

	// Fresh entry again, no fetch within the new TTL window
	s.clock.Advance(time.Hour)
	_, _, err = s.cache.Get(s.ctx, false)
	s.Require().NoError(err)
	s.Equal(2, s.fetchCount)
}
