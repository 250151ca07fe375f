package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rinkhq/pickup-admin/internal/dependencies/mocks"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/ledger"
	"github.com/rinkhq/pickup-admin/internal/store"
	"github.com/rinkhq/pickup-admin/internal/store/memory"
	"github.com/rinkhq/pickup-admin/internal/testutil"
)

type WorkflowSuite struct {
	suite.Suite
	store    *memory.Store
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	ledger   *ledger.Service
	workflow *Workflow
	ctx      context.Context
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 5, 22, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	s.ledger = ledger.New(s.store, s.clock, s.random, logger)
	s.workflow = New(s.store, s.clock, s.ledger, logger)
	s.ctx = context.Background()
}

func (s *WorkflowSuite) seedGame(game model.Game) {
	doc, err := store.Encode(game)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(s.ctx, model.CollectionGames, string(game.ID), doc))
}

func (s *WorkflowSuite) seedUser(profile model.UserProfile) {
	doc, err := store.Encode(profile)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(s.ctx, model.CollectionUsers, string(profile.UID), doc))
}

func (s *WorkflowSuite) getUser(uid model.UID) model.UserProfile {
	doc, err := s.store.Get(s.ctx, model.CollectionUsers, string(uid))
	s.Require().NoError(err)
	profile, err := store.Decode[model.UserProfile](doc)
	s.Require().NoError(err)
	return profile
}

func (s *WorkflowSuite) getGame(id model.GameID) model.Game {
	doc, err := s.store.Get(s.ctx, model.CollectionGames, string(id))
	s.Require().NoError(err)
	game, err := store.Decode[model.Game](doc)
	s.Require().NoError(err)
	return game
}

func (s *WorkflowSuite) activePass(id string, t model.PassType, remaining int, purchased time.Time) model.Pass {
	return model.Pass{
		ID:             model.PassID(id),
		Type:           t,
		GamesTotal:     model.GamesTotalFor(t),
		GamesRemaining: remaining,
		PurchaseDate:   purchased,
		Status:         model.PassActive,
		UsageHistory:   []model.UsageRecord{},
	}
}

func (s *WorkflowSuite) scheduledGame(players ...model.Player) model.Game {
	return model.Game{
		ID:          "game-1",
		Date:        "2024-03-05",
		Venue:       "Civic Arena",
		Time:        "10:30pm",
		ScheduleKey: "sunday_1030pm_civic",
		Status:      model.GameStatusScheduled,
		Players:     players,
	}
}

func (s *WorkflowSuite) TestCompleteGameMarksCompleted() {
	s.seedGame(s.scheduledGame())

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), report.GameID)
	s.Equal(s.clock.Now(), report.CompletedAt)

	game := s.getGame("game-1")
	s.Equal(model.GameStatusCompleted, game.Status)
	s.Require().NotNil(game.CompletedAt)
	s.Equal(s.clock.Now(), *game.CompletedAt)
}

func (s *WorkflowSuite) TestCompleteGameFailsIfAlreadyCompleted() {
	game := s.scheduledGame()
	game.Status = model.GameStatusCompleted
	s.seedGame(game)

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameAlreadyCompleted)
}

func (s *WorkflowSuite) TestCompleteGameFailsIfNotFound() {
	_, err := s.workflow.CompleteGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *WorkflowSuite) TestCompleteGameDebitsOldestPass() {
	older := s.clock.Now().Add(-30 * 24 * time.Hour)
	s.seedUser(model.UserProfile{
		UID: "u1",
		Passes: []model.Pass{
			s.activePass("pass-new", model.PassTenGame, 10, s.clock.Now()),
			s.activePass("pass-old", model.PassFiveGame, 2, older),
		},
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(report.Players, 1)
	s.Equal(model.PassID("pass-old"), report.Players[0].PassID)

	profile := s.getUser("u1")
	old := profile.PassByID("pass-old")
	s.Require().NotNil(old)
	s.Equal(1, old.GamesRemaining)
	s.Require().Len(old.UsageHistory, 1)
	s.Equal(model.GameID("game-1"), old.UsageHistory[0].GameID)
	s.Equal(10, profile.PassByID("pass-new").GamesRemaining)
}

func (s *WorkflowSuite) TestCompleteGameAppendsHistoryWithPassID() {
	s.seedUser(model.UserProfile{
		UID:    "u1",
		Passes: []model.Pass{s.activePass("pass-1", model.PassFiveGame, 5, s.clock.Now())},
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	profile := s.getUser("u1")
	s.Require().Len(profile.GameHistory, 1)
	entry := profile.GameHistory[0]
	s.Equal(model.GameID("game-1"), entry.GameID)
	s.Equal("sunday_1030pm_civic", entry.ScheduleKey)
	s.Equal("played", entry.Status)
	s.Equal(model.PassID("pass-1"), entry.PassID)
}

func (s *WorkflowSuite) TestCompleteGameFullSeasonRecordsUsageWithoutDecrement() {
	s.seedUser(model.UserProfile{
		UID:    "u1",
		Passes: []model.Pass{s.activePass("pass-1", model.PassFullSeason, model.UnlimitedGames, s.clock.Now())},
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	profile := s.getUser("u1")
	pass := profile.PassByID("pass-1")
	s.Equal(model.UnlimitedGames, pass.GamesRemaining)
	s.Equal(model.PassActive, pass.Status)
	s.Len(pass.UsageHistory, 1)
}

func (s *WorkflowSuite) TestCompleteGameExhaustsPassOnLastGame() {
	s.seedUser(model.UserProfile{
		UID:    "u1",
		Passes: []model.Pass{s.activePass("pass-1", model.PassOneGame, 1, s.clock.Now())},
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	profile := s.getUser("u1")
	pass := profile.PassByID("pass-1")
	s.Equal(0, pass.GamesRemaining)
	s.Equal(model.PassExhausted, pass.Status)
}

func (s *WorkflowSuite) TestCompleteGameMigratesLegacyPassThenDebits() {
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           model.PassTenGame,
		PassGamesRemaining: 4,
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(report.Players, 1)
	s.NotEmpty(report.Players[0].PassID)
	s.False(report.Players[0].LegacyDebited)

	profile := s.getUser("u1")
	s.False(profile.HasLegacyPass())
	s.Require().Len(profile.Passes, 1)
	s.Equal(3, profile.Passes[0].GamesRemaining)
}

func (s *WorkflowSuite) TestCompleteGameLegacyFallbackForUnknownType() {
	// Migration declines unknown legacy types, so the old balance is
	// decremented directly
	s.seedUser(model.UserProfile{
		UID:                "u1",
		PassType:           "punch-card",
		PassGamesRemaining: 3,
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(report.Players, 1)
	s.True(report.Players[0].LegacyDebited)

	profile := s.getUser("u1")
	s.Equal(2, profile.PassGamesRemaining)
}

func (s *WorkflowSuite) TestCompleteGameNoEligiblePassChargesNothing() {
	s.seedUser(model.UserProfile{
		UID:    "u1",
		Passes: []model.Pass{s.activePass("pass-1", model.PassFiveGame, 0, s.clock.Now())},
	})
	s.seedGame(s.scheduledGame(model.Player{UID: "u1", Name: "Alice"}))

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(report.Players, 1)
	s.Empty(report.Players[0].PassID)
	s.False(report.Players[0].LegacyDebited)

	profile := s.getUser("u1")
	s.Require().Len(profile.GameHistory, 1)
	s.Empty(profile.GameHistory[0].PassID)
}

func (s *WorkflowSuite) TestCompleteGameIncrementsCityCounter() {
	s.seedUser(model.UserProfile{
		UID: "u1",
		CityData: map[model.CityID]model.CityData{
			"halifax": {GamesPlayed: 5},
		},
	})
	game := s.scheduledGame(model.Player{UID: "u1", Name: "Alice"})
	game.CityID = "halifax"
	s.seedGame(game)

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	profile := s.getUser("u1")
	s.Equal(6, profile.CityData["halifax"].GamesPlayed)
	s.Zero(profile.GamesPlayed)
}

func (s *WorkflowSuite) TestCompleteGameIncrementsGlobalCounterWithoutCityData() {
	s.seedUser(model.UserProfile{UID: "u1", GamesPlayed: 2})
	game := s.scheduledGame(model.Player{UID: "u1", Name: "Alice"})
	game.CityID = "halifax"
	s.seedGame(game)

	_, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	s.Equal(3, s.getUser("u1").GamesPlayed)
}

func (s *WorkflowSuite) TestCompleteGameSkipsMissingProfileAndContinues() {
	s.seedUser(model.UserProfile{UID: "u2"})
	s.seedGame(s.scheduledGame(
		model.Player{UID: "ghost", Name: "Ghost"},
		model.Player{UID: "u2", Name: "Bob"},
	))

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(report.Skipped, 1)
	s.Equal(model.UID("ghost"), report.Skipped[0].UID)
	s.Require().Len(report.Players, 1)
	s.Equal(model.UID("u2"), report.Players[0].UID)

	// The game is still completed and the healthy player charged
	s.Equal(model.GameStatusCompleted, s.getGame("game-1").Status)
	s.Len(s.getUser("u2").GameHistory, 1)
}

func (s *WorkflowSuite) TestCompleteGameIgnoresWaitlist() {
	s.seedUser(model.UserProfile{UID: "u1"})
	game := s.scheduledGame()
	game.Waitlist = []model.Player{{UID: "u1", Name: "Alice"}}
	s.seedGame(game)

	report, err := s.workflow.CompleteGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(report.Players)
	s.Empty(s.getUser("u1").GameHistory)
}
