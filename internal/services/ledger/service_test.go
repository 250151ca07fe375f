package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rinkhq/pickup-admin/internal/dependencies/mocks"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/store"
	"github.com/rinkhq/pickup-admin/internal/store/memory"
	"github.com/rinkhq/pickup-admin/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.Store
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.store, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) seedUser(profile model.UserProfile) {
	doc, err := store.Encode(profile)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(s.ctx, model.CollectionUsers, string(profile.UID), doc))
}

func (s *ServiceSuite) pass(id string, t model.PassType, remaining int, purchased time.Time) model.Pass {
	total := model.GamesTotalFor(t)
	status := model.PassActive
	if t != model.PassFullSeason && remaining <= 0 {
		status = model.PassExhausted
	}
	return model.Pass{
		ID:             model.PassID(id),
		Type:           t,
		GamesTotal:     total,
		GamesRemaining: remaining,
		PurchaseDate:   purchased,
		Status:         status,
		UsageHistory:   []model.UsageRecord{},
	}
}

// AddPass tests

func (s *ServiceSuite) TestAddPassSucceeds() {
	s.seedUser(model.UserProfile{UID: "u1", Name: "Alice"})
	s.random.QueueID("pass-1")

	pass, err := s.service.AddPass(s.ctx, "u1", model.PassTenGame)
	s.Require().NoError(err)
	s.Equal(model.PassID("pass-1"), pass.ID)
	s.Equal(10, pass.GamesTotal)
	s.Equal(10, pass.GamesRemaining)
	s.Equal(model.PassActive, pass.Status)
	s.Equal(s.clock.Now(), pass.PurchaseDate)

	passes, err := s.service.GetPasses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(passes, 1)
	s.Equal(model.PassID("pass-1"), passes[0].ID)
}

func (s *ServiceSuite) TestAddPassFullSeasonUsesSentinel() {
	s.seedUser(model.UserProfile{UID: "u1"})

	pass, err := s.service.AddPass(s.ctx, "u1", model.PassFullSeason)
	s.Require().NoError(err)
	s.Equal(model.UnlimitedGames, pass.GamesTotal)
	s.Equal(model.UnlimitedGames, pass.GamesRemaining)
}

func (s *ServiceSuite) TestAddPassFailsOnInvalidType() {
	s.seedUser(model.UserProfile{UID: "u1"})

	_, err := s.service.AddPass(s.ctx, "u1", "20-game")
	s.ErrorIs(err, model.ErrInvalidPassType)
}

func (s *ServiceSuite) TestAddPassFailsIfUserNotFound() {
	_, err := s.service.AddPass(s.ctx, "nonexistent", model.PassOneGame)
	s.ErrorIs(err, model.ErrUserNotFound)
}

// RemovePass tests

func (s *ServiceSuite) TestRemovePassSucceeds() {
	s.seedUser(model.UserProfile{UID: "u1", Passes: []model.Pass{
		s.pass("pass-1", model.PassFiveGame, 3, s.clock.Now()),
		s.pass("pass-2", model.PassOneGame, 1, s.clock.Now()),
	}})

	err := s.service.RemovePass(s.ctx, "u1", "pass-1")
	s.Require().NoError(err)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(model.PassID("pass-2"), passes[0].ID)
}

func (s *ServiceSuite) TestRemovePassFailsIfNotFound() {
	s.seedUser(model.UserProfile{UID: "u1"})

	err := s.service.RemovePass(s.ctx, "u1", "pass-1")
	s.ErrorIs(err, model.ErrPassNotFound)
}

// UpdatePass tests

func (s *ServiceSuite) TestUpdatePassReplacesMatchingPass() {
	s.seedUser(model.UserProfile{UID: "u1", Passes: []model.Pass{
		s.pass("pass-1", model.PassFiveGame, 3, s.clock.Now()),
	}})

	updated := s.pass("pass-1", model.PassFiveGame, 5, s.clock.Now())
	err := s.service.UpdatePass(s.ctx, "u1", updated)
	s.Require().NoError(err)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(5, passes[0].GamesRemaining)
}

func (s *ServiceSuite) TestUpdatePassToppingUpExhaustedReactivates() {
	s.seedUser(model.UserProfile{UID: "u1", Passes: []model.Pass{
		s.pass("pass-1", model.PassFiveGame, 0, s.clock.Now()),
	}})

	// Caller raises the balance but carries the stale exhausted status
	updated := s.pass("pass-1", model.PassFiveGame, 0, s.clock.Now())
	updated.GamesRemaining = 3

	err := s.service.UpdatePass(s.ctx, "u1", updated)
	s.Require().NoError(err)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(3, passes[0].GamesRemaining)
	s.Equal(model.PassActive, passes[0].Status)

	selected := SelectPassToDebit(passes)
	s.Require().NotNil(selected)
	s.Equal(model.PassID("pass-1"), selected.ID)
}

func (s *ServiceSuite) TestUpdatePassZeroBalanceExhausts() {
	s.seedUser(model.UserProfile{UID: "u1", Passes: []model.Pass{
		s.pass("pass-1", model.PassFiveGame, 3, s.clock.Now()),
	}})

	// Caller zeroes the balance but leaves the status active
	updated := s.pass("pass-1", model.PassFiveGame, 3, s.clock.Now())
	updated.GamesRemaining = 0

	err := s.service.UpdatePass(s.ctx, "u1", updated)
	s.Require().NoError(err)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(model.PassExhausted, passes[0].Status)
	s.Nil(SelectPassToDebit(passes))
}

func (s *ServiceSuite) TestUpdatePassFullSeasonKeepsStatus() {
	s.seedUser(model.UserProfile{UID: "u1", Passes: []model.Pass{
		s.pass("pass-1", model.PassFullSeason, model.UnlimitedGames, s.clock.Now()),
	}})

	updated := s.pass("pass-1", model.PassFullSeason, 0, s.clock.Now())
	err := s.service.UpdatePass(s.ctx, "u1", updated)
	s.Require().NoError(err)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(model.PassActive, passes[0].Status)
}

func (s *ServiceSuite) TestUpdatePassFailsIfNotFound() {
	s.seedUser(model.UserProfile{UID: "u1"})

	err := s.service.UpdatePass(s.ctx, "u1", s.pass("pass-1", model.PassOneGame, 1, s.clock.Now()))
	s.ErrorIs(err, model.ErrPassNotFound)
}

// SelectPassToDebit tests

func (s *ServiceSuite) TestSelectPassToDebitPicksOldestEligible() {
	older := s.clock.Now().Add(-48 * time.Hour)
	newer := s.clock.Now()
	passes := []model.Pass{
		s.pass("pass-new", model.PassTenGame, 10, newer),
		s.pass("pass-old", model.PassFiveGame, 2, older),
	}

	selected := SelectPassToDebit(passes)
	s.Require().NotNil(selected)
	s.Equal(model.PassID("pass-old"), selected.ID)
}

func (s *ServiceSuite) TestSelectPassToDebitSkipsExhausted() {
	older := s.clock.Now().Add(-48 * time.Hour)
	passes := []model.Pass{
		s.pass("pass-empty", model.PassFiveGame, 0, older),
		s.pass("pass-ok", model.PassTenGame, 4, s.clock.Now()),
	}

	selected := SelectPassToDebit(passes)
	s.Require().NotNil(selected)
	s.Equal(model.PassID("pass-ok"), selected.ID)
}

func (s *ServiceSuite) TestSelectPassToDebitFullSeasonAlwaysEligible() {
	passes := []model.Pass{
		s.pass("pass-season", model.PassFullSeason, model.UnlimitedGames, s.clock.Now()),
	}

	selected := SelectPassToDebit(passes)
	s.Require().NotNil(selected)
	s.Equal(model.PassID("pass-season"), selected.ID)
}

func (s *ServiceSuite) TestSelectPassToDebitTieKeepsFirst() {
	purchased := s.clock.Now()
	passes := []model.Pass{
		s.pass("pass-a", model.PassFiveGame, 2, purchased),
		s.pass("pass-b", model.PassFiveGame, 5, purchased),
	}

	selected := SelectPassToDebit(passes)
	s.Require().NotNil(selected)
	s.Equal(model.PassID("pass-a"), selected.ID)
}

func (s *ServiceSuite) TestSelectPassToDebitReturnsNilIfNoneEligible() {
	passes := []model.Pass{
		s.pass("pass-empty", model.PassFiveGame, 0, s.clock.Now()),
	}
	s.Nil(SelectPassToDebit(passes))
	s.Nil(SelectPassToDebit(nil))
}

// Debit tests

func (s *ServiceSuite) TestDebitDecrementsAndRecordsUsage() {
	pass := s.pass("pass-1", model.PassFiveGame, 2, s.clock.Now())

	Debit(&pass, model.UsageRecord{GameID: "game-1", UsedAt: s.clock.Now()})

	s.Equal(1, pass.GamesRemaining)
	s.Equal(model.PassActive, pass.Status)
	s.Require().Len(pass.UsageHistory, 1)
	s.Equal(model.GameID("game-1"), pass.UsageHistory[0].GameID)
}

func (s *ServiceSuite) TestDebitExhaustsOnLastGame() {
	pass := s.pass("pass-1", model.PassOneGame, 1, s.clock.Now())

	Debit(&pass, model.UsageRecord{GameID: "game-1"})

	s.Equal(0, pass.GamesRemaining)
	s.Equal(model.PassExhausted, pass.Status)
}

func (s *ServiceSuite) TestDebitFullSeasonNeverDecrements() {
	pass := s.pass("pass-1", model.PassFullSeason, model.UnlimitedGames, s.clock.Now())

	Debit(&pass, model.UsageRecord{GameID: "game-1"})
	Debit(&pass, model.UsageRecord{GameID: "game-2"})

	s.Equal(model.UnlimitedGames, pass.GamesRemaining)
	s.Equal(model.PassActive, pass.Status)
	s.Len(pass.UsageHistory, 2)
}

// MigrateLegacy tests

func (s *ServiceSuite) TestMigrateLegacyConvertsSinglePass() {
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           model.PassTenGame,
		PassGamesRemaining: 7,
		PassStartDate:      &start,
	})
	s.random.QueueID("pass-migrated")

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(migrated)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(model.PassID("pass-migrated"), passes[0].ID)
	s.Equal(model.PassTenGame, passes[0].Type)
	s.Equal(10, passes[0].GamesTotal)
	s.Equal(7, passes[0].GamesRemaining)
	s.Equal(start, passes[0].PurchaseDate)
	s.Equal(model.PassActive, passes[0].Status)
}

func (s *ServiceSuite) TestMigrateLegacyClearsLegacyFields() {
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           model.PassFiveGame,
		PassGamesRemaining: 2,
	})

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(migrated)

	doc, err := s.store.Get(s.ctx, model.CollectionUsers, "u1")
	s.Require().NoError(err)
	profile, err := store.Decode[model.UserProfile](doc)
	s.Require().NoError(err)
	s.False(profile.HasLegacyPass())
	s.Zero(profile.PassGamesRemaining)
	s.Nil(profile.PassStartDate)
}

func (s *ServiceSuite) TestMigrateLegacyFullSeasonCopiesBalanceAndStaysActive() {
	s.seedUser(model.UserProfile{
		UID:      "u1",
		PassType: model.PassFullSeason,
	})

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(migrated)

	// The legacy balance (zero here) carries over untouched; the pass
	// stays active and debitable regardless
	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(0, passes[0].GamesRemaining)
	s.Equal(model.PassActive, passes[0].Status)
	s.NotNil(SelectPassToDebit(passes))
}

func (s *ServiceSuite) TestMigrateLegacyExhaustedWhenNoGamesRemaining() {
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           model.PassFiveGame,
		PassGamesRemaining: 0,
	})

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(migrated)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Require().Len(passes, 1)
	s.Equal(model.PassExhausted, passes[0].Status)
}

func (s *ServiceSuite) TestMigrateLegacyNoOpWithoutLegacyPass() {
	s.seedUser(model.UserProfile{UID: "u1"})

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(migrated)
}

func (s *ServiceSuite) TestMigrateLegacyRunsOnlyOnce() {
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           model.PassFiveGame,
		PassGamesRemaining: 2,
	})

	first, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(first)

	second, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(second)

	passes, _ := s.service.GetPasses(s.ctx, "u1")
	s.Len(passes, 1)
}

func (s *ServiceSuite) TestMigrateLegacySkipsUnknownType() {
	s.seedUser(model.UserProfile{
		UID:      "u1",
		PassType: "punch-card",
	})

	migrated, err := s.service.MigrateLegacy(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(migrated)
}

func (s *ServiceSuite) TestMigrateLegacyFailsIfUserNotFound() {
	_, err := s.service.MigrateLegacy(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}
