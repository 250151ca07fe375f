package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/cities"
	"github.com/rinkhq/pickup-admin/internal/services/completion"
	"github.com/rinkhq/pickup-admin/internal/services/ledger"
	"github.com/rinkhq/pickup-admin/internal/services/projection"
	"github.com/rinkhq/pickup-admin/internal/services/roster"
	"github.com/rinkhq/pickup-admin/internal/services/users"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Facade is the single entry point for admin operations. It composes
// the domain services behind result-value signatures: operations log
// their own failures and report them in the returned result instead of
// raising errors across the boundary.
type Facade struct {
	roster     *roster.Service
	ledger     *ledger.Service
	completion *completion.Workflow
	cities     *cities.Service
	users      *users.Service
	gameView   *projection.Projection[model.Game]
	logger     *slog.Logger
}

// New creates the admin facade over the domain services
func New(
	rosterService *roster.Service,
	ledgerService *ledger.Service,
	completionWorkflow *completion.Workflow,
	cityService *cities.Service,
	userService *users.Service,
	gameView *projection.Projection[model.Game],
	logger *slog.Logger,
) *Facade {
	return &Facade{
		roster:     rosterService,
		ledger:     ledgerService,
		completion: completionWorkflow,
		cities:     cityService,
		users:      userService,
		gameView:   gameView,
		logger:     logger.With(slog.String("component", "admin")),
	}
}

func (f *Facade) failed(op string, err error) Result {
	f.logger.Error("operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
	return fail(err)
}

// Games

// ListGames returns games ordered by date descending, optionally
// filtered to one city
func (f *Facade) ListGames(ctx context.Context, cityID model.CityID) GamesResult {
	games, err := f.roster.ListGames(ctx, cityID)
	if err != nil {
		return GamesResult{Result: f.failed("ListGames", err)}
	}
	return GamesResult{Result: ok(), Games: games}
}

// GetGame returns one game by id
func (f *Facade) GetGame(ctx context.Context, gameID model.GameID) GameResult {
	game, err := f.roster.GetGame(ctx, gameID)
	if err != nil {
		return GameResult{Result: f.failed("GetGame", err)}
	}
	return GameResult{Result: ok(), Game: game}
}

// LoadGame points the live game view at a game and starts syncing it.
// Subsequent store changes to the game are reflected in CurrentGame.
func (f *Facade) LoadGame(ctx context.Context, gameID model.GameID) GameResult {
	game, err := f.gameView.Load(ctx, string(gameID), nil)
	if errors.Is(err, store.ErrNotFound) {
		return GameResult{Result: f.failed("LoadGame", model.ErrGameNotFound)}
	}
	if err != nil {
		return GameResult{Result: f.failed("LoadGame", err)}
	}
	return GameResult{Result: ok(), Game: game}
}

// CurrentGame returns the latest synced value of the loaded game
func (f *Facade) CurrentGame() GameResult {
	game, loaded := f.gameView.Current()
	if !loaded {
		return GameResult{Result: f.failed("CurrentGame", model.ErrGameNotFound)}
	}
	return GameResult{Result: ok(), Game: game}
}

// UnloadGame tears down the live game view
func (f *Facade) UnloadGame() Result {
	f.gameView.Unsubscribe()
	return ok()
}

// Rosters

// MovePlayerFromWaitlist promotes a waitlisted player to the player list
func (f *Facade) MovePlayerFromWaitlist(ctx context.Context, gameID model.GameID, uid model.UID) Result {
	if err := f.roster.MoveFromWaitlistToPlayers(ctx, gameID, uid); err != nil {
		return f.failed("MovePlayerFromWaitlist", err)
	}
	return ok()
}

// RemovePlayerFromGame removes a player from the waitlist or player list
func (f *Facade) RemovePlayerFromGame(ctx context.Context, gameID model.GameID, uid model.UID, fromWaitlist bool) Result {
	if err := f.roster.RemovePlayer(ctx, gameID, uid, fromWaitlist); err != nil {
		return f.failed("RemovePlayerFromGame", err)
	}
	return ok()
}

// MovePlayerBetweenLists moves a player between the waitlist and the
// player list in either direction
func (f *Facade) MovePlayerBetweenLists(ctx context.Context, gameID model.GameID, player model.Player, from, to model.RosterList) Result {
	if err := f.roster.MoveBetweenLists(ctx, gameID, player, from, to); err != nil {
		return f.failed("MovePlayerBetweenLists", err)
	}
	return ok()
}

// AssignTeams replaces a game's team assignments
func (f *Facade) AssignTeams(ctx context.Context, gameID model.GameID, assignments map[string][]model.Player) Result {
	if err := f.roster.AssignTeams(ctx, gameID, assignments); err != nil {
		return f.failed("AssignTeams", err)
	}
	return ok()
}

// MarkGameAsPlayed runs the completion workflow: charges every rostered
// player and marks the game completed
func (f *Facade) MarkGameAsPlayed(ctx context.Context, gameID model.GameID) CompletionResult {
	report, err := f.completion.CompleteGame(ctx, gameID)
	if err != nil {
		return CompletionResult{Result: f.failed("MarkGameAsPlayed", err)}
	}
	return CompletionResult{Result: ok(), Report: report}
}

// Passes

// GetPasses returns a user's pass set
func (f *Facade) GetPasses(ctx context.Context, uid model.UID) PassesResult {
	passes, err := f.ledger.GetPasses(ctx, uid)
	if err != nil {
		return PassesResult{Result: f.failed("GetPasses", err)}
	}
	return PassesResult{Result: ok(), Passes: passes}
}

// AddPass grants a user a new pass of the given type
func (f *Facade) AddPass(ctx context.Context, uid model.UID, passType model.PassType) PassResult {
	pass, err := f.ledger.AddPass(ctx, uid, passType)
	if err != nil {
		return PassResult{Result: f.failed("AddPass", err)}
	}
	return PassResult{Result: ok(), Pass: pass}
}

// RemovePass deletes a pass from a user's ledger
func (f *Facade) RemovePass(ctx context.Context, uid model.UID, passID model.PassID) Result {
	if err := f.ledger.RemovePass(ctx, uid, passID); err != nil {
		return f.failed("RemovePass", err)
	}
	return ok()
}

// UpdatePass replaces a stored pass with the same id
func (f *Facade) UpdatePass(ctx context.Context, uid model.UID, pass model.Pass) Result {
	if err := f.ledger.UpdatePass(ctx, uid, pass); err != nil {
		return f.failed("UpdatePass", err)
	}
	return ok()
}

// MigrateLegacyPass converts a user's legacy single-pass fields into a
// ledger entry, at most once
func (f *Facade) MigrateLegacyPass(ctx context.Context, uid model.UID) MigrationResult {
	migrated, err := f.ledger.MigrateLegacy(ctx, uid)
	if err != nil {
		return MigrationResult{Result: f.failed("MigrateLegacyPass", err)}
	}
	return MigrationResult{Result: ok(), Migrated: migrated}
}

// Cities

// GetCities returns the city list, cached for up to a day
func (f *Facade) GetCities(ctx context.Context, force bool) CitiesResult {
	list, stale, err := f.cities.GetCities(ctx, force)
	if err != nil {
		return CitiesResult{Result: f.failed("GetCities", err)}
	}
	return CitiesResult{Result: ok(), Cities: list, Stale: stale}
}

// GetCity returns one city by id
func (f *Facade) GetCity(ctx context.Context, cityID model.CityID) CityResult {
	city, err := f.cities.GetCity(ctx, cityID)
	if err != nil {
		return CityResult{Result: f.failed("GetCity", err)}
	}
	return CityResult{Result: ok(), City: city}
}

// CreateCity creates a city with a slugified id
func (f *Facade) CreateCity(ctx context.Context, input cities.CityInput) CityResult {
	city, err := f.cities.CreateCity(ctx, input)
	if err != nil {
		return CityResult{Result: f.failed("CreateCity", err)}
	}
	return CityResult{Result: ok(), City: city}
}

// UpdateCity applies the input to an existing city
func (f *Facade) UpdateCity(ctx context.Context, cityID model.CityID, input cities.CityInput) CityResult {
	city, err := f.cities.UpdateCity(ctx, cityID, input)
	if err != nil {
		return CityResult{Result: f.failed("UpdateCity", err)}
	}
	return CityResult{Result: ok(), City: city}
}

// SetCityActive toggles a city's visibility
func (f *Facade) SetCityActive(ctx context.Context, cityID model.CityID, active bool) Result {
	if err := f.cities.SetActive(ctx, cityID, active); err != nil {
		return f.failed("SetCityActive", err)
	}
	return ok()
}

// DeleteCity removes a city
func (f *Facade) DeleteCity(ctx context.Context, cityID model.CityID) Result {
	if err := f.cities.DeleteCity(ctx, cityID); err != nil {
		return f.failed("DeleteCity", err)
	}
	return ok()
}

// Users

// ListUsers returns all user profiles ordered by name
func (f *Facade) ListUsers(ctx context.Context) UsersResult {
	list, err := f.users.ListUsers(ctx)
	if err != nil {
		return UsersResult{Result: f.failed("ListUsers", err)}
	}
	return UsersResult{Result: ok(), Users: list}
}

// GetUser returns one user profile
func (f *Facade) GetUser(ctx context.Context, uid model.UID) UserResult {
	user, err := f.users.GetUser(ctx, uid)
	if err != nil {
		return UserResult{Result: f.failed("GetUser", err)}
	}
	return UserResult{Result: ok(), User: user}
}

// RegisterUser creates a profile for a new user, or returns the
// existing one
func (f *Facade) RegisterUser(ctx context.Context, uid model.UID, email, name string) UserResult {
	user, err := f.users.Register(ctx, uid, email, name)
	if err != nil {
		return UserResult{Result: f.failed("RegisterUser", err)}
	}
	return UserResult{Result: ok(), User: user}
}

// UpdateProfile applies the editable fields of a user profile
func (f *Facade) UpdateProfile(ctx context.Context, uid model.UID, input users.ProfileInput) Result {
	if err := f.users.UpdateProfile(ctx, uid, input); err != nil {
		return f.failed("UpdateProfile", err)
	}
	return ok()
}

// SetAdmin grants or revokes admin, optionally scoped to a city
func (f *Facade) SetAdmin(ctx context.Context, uid model.UID, cityID model.CityID, isAdmin bool) Result {
	if err := f.users.SetAdmin(ctx, uid, cityID, isAdmin); err != nil {
		return f.failed("SetAdmin", err)
	}
	return ok()
}

// SetRegular marks a user as a regular for a recurring schedule slot
func (f *Facade) SetRegular(ctx context.Context, uid model.UID, scheduleKey string, regular bool) Result {
	if err := f.users.SetRegular(ctx, uid, scheduleKey, regular); err != nil {
		return f.failed("SetRegular", err)
	}
	return ok()
}
