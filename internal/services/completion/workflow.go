package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/ledger"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Workflow marks games as played: it debits a pass (or the legacy
// balance) for every rostered player, appends their game history entry,
// bumps their games-played counter and finally flips the game to
// completed.
//
// Per-player failures do not abort the run. A player whose update fails
// is recorded in the report and skipped, and the game is still marked
// completed, so one bad profile cannot wedge a whole game.
type Workflow struct {
	store  store.Store
	clock  clock.Clock
	ledger *ledger.Service
	logger *slog.Logger
}

// New creates a new completion workflow
func New(st store.Store, clk clock.Clock, ledgerService *ledger.Service, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:  st,
		clock:  clk,
		ledger: ledgerService,
		logger: logger.With(slog.String("component", "completion")),
	}
}

// PlayerOutcome records how one player's attendance was charged
type PlayerOutcome struct {
	UID model.UID `json:"uid"`
	// PassID is the pass that was debited, empty when attendance
	// consumed no pass
	PassID model.PassID `json:"passId,omitempty"`
	// LegacyDebited is true when the old single-pass balance was
	// decremented instead
	LegacyDebited bool `json:"legacyDebited"`
}

// SkippedPlayer records a player whose profile update failed
type SkippedPlayer struct {
	UID    model.UID `json:"uid"`
	Reason string    `json:"reason"`
}

// Report summarizes a completion run
type Report struct {
	GameID      model.GameID    `json:"gameId"`
	CompletedAt time.Time       `json:"completedAt"`
	Players     []PlayerOutcome `json:"players"`
	Skipped     []SkippedPlayer `json:"skipped,omitempty"`
}

// CompleteGame runs the completion workflow for a scheduled game.
// Completing an already-completed game fails with
// ErrGameAlreadyCompleted; the per-player charges are not idempotent and
// must not run twice.
func (w *Workflow) CompleteGame(ctx context.Context, gameID model.GameID) (*Report, error) {
	doc, err := w.store.Get(ctx, model.CollectionGames, string(gameID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	game, err := store.Decode[model.Game](doc)
	if err != nil {
		return nil, err
	}
	if game.Status == model.GameStatusCompleted {
		return nil, model.ErrGameAlreadyCompleted
	}

	now := w.clock.Now()
	report := &Report{GameID: gameID, CompletedAt: now}

	for _, player := range game.Players {
		outcome, err := w.chargePlayer(ctx, &game, player.UID, now)
		if err != nil {
			w.logger.Error("failed to process player, skipping",
				slog.String("gameId", string(gameID)),
				slog.String("uid", string(player.UID)),
				slog.String("error", err.Error()))
			report.Skipped = append(report.Skipped, SkippedPlayer{
				UID:    player.UID,
				Reason: err.Error(),
			})
			continue
		}
		report.Players = append(report.Players, *outcome)
	}

	err = w.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
		"status":      store.Set(model.GameStatusCompleted),
		"completedAt": store.Set(now),
	})
	if err != nil {
		return nil, fmt.Errorf("marking game completed: %w", err)
	}

	w.logger.Info("game completed",
		slog.String("gameId", string(gameID)),
		slog.Int("players", len(report.Players)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// chargePlayer builds and applies the single profile patch for one
// player: games-played counter, pass or legacy debit, history entry.
func (w *Workflow) chargePlayer(ctx context.Context, game *model.Game, uid model.UID, now time.Time) (*PlayerOutcome, error) {
	// Fold any legacy single-pass fields into the ledger first so the
	// debit below only ever has one representation to deal with
	if _, err := w.ledger.MigrateLegacy(ctx, uid); err != nil {
		return nil, err
	}

	doc, err := w.store.Get(ctx, model.CollectionUsers, string(uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	profile, err := store.Decode[model.UserProfile](doc)
	if err != nil {
		return nil, err
	}

	outcome := &PlayerOutcome{UID: uid}
	updates := map[string]store.FieldUpdate{}

	// City-scoped counter when the user has membership data for the
	// game's city, otherwise the legacy global counter
	if game.CityID != "" && hasCityData(&profile, game.CityID) {
		field := fmt.Sprintf("cityData.%s.gamesPlayed", game.CityID)
		updates[field] = store.Increment(1)
	} else {
		updates["gamesPlayed"] = store.Increment(1)
	}

	entry := model.GameHistoryEntry{
		GameID:      game.ID,
		CityID:      game.CityID,
		Date:        game.Date,
		ScheduleKey: game.ScheduleKey,
		Venue:       game.Venue,
		Time:        game.Time,
		Status:      "played",
	}

	if selected := ledger.SelectPassToDebit(profile.Passes); selected != nil {
		ledger.Debit(selected, model.UsageRecord{
			GameID: game.ID,
			CityID: game.CityID,
			Date:   game.Date,
			Venue:  game.Venue,
			UsedAt: now,
		})
		entry.PassID = selected.ID
		outcome.PassID = selected.ID
		updates["passes"] = store.Set(profile.Passes)
	} else if legacyDebitable(&profile) {
		// Unmigrated legacy balance (migration declined, e.g. unknown
		// pass type)
		updates["passGamesRemaining"] = store.Increment(-1)
		outcome.LegacyDebited = true
	}

	updates["gameHistory"] = store.ArrayUnion(entry)

	if err := w.store.Patch(ctx, model.CollectionUsers, string(uid), updates); err != nil {
		return nil, err
	}
	return outcome, nil
}

func hasCityData(profile *model.UserProfile, cityID model.CityID) bool {
	_, ok := profile.CityData[cityID]
	return ok
}

func legacyDebitable(profile *model.UserProfile) bool {
	return profile.HasLegacyPass() &&
		profile.PassType != model.PassFullSeason &&
		profile.PassGamesRemaining > 0
}
