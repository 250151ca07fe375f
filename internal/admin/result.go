package admin

import (
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/completion"
)

// Result is the uniform outcome shape every facade operation returns.
// Failures come back as a value with Success false and a message, never
// as a returned error, so callers handle both outcomes the same way.
// The underlying error stays available through Cause for callers that
// need to classify the failure.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	cause error
}

// Cause returns the underlying error of a failed result, nil on success
func (r Result) Cause() error {
	return r.cause
}

func ok() Result {
	return Result{Success: true}
}

func fail(err error) Result {
	return Result{Success: false, Error: err.Error(), cause: err}
}

// GameResult carries a single game
type GameResult struct {
	Result
	Game *model.Game `json:"game,omitempty"`
}

// GamesResult carries a game list
type GamesResult struct {
	Result
	Games []model.Game `json:"games,omitempty"`
}

// PassResult carries a single pass
type PassResult struct {
	Result
	Pass *model.Pass `json:"pass,omitempty"`
}

// PassesResult carries a user's pass set
type PassesResult struct {
	Result
	Passes []model.Pass `json:"passes,omitempty"`
}

// MigrationResult reports whether a legacy migration was performed
type MigrationResult struct {
	Result
	Migrated bool `json:"migrated"`
}

// CompletionResult carries the completion report for a game
type CompletionResult struct {
	Result
	Report *completion.Report `json:"report,omitempty"`
}

// CityResult carries a single city
type CityResult struct {
	Result
	City *model.City `json:"city,omitempty"`
}

// CitiesResult carries the city list. Stale is true when the list came
// from an expired cache because the store was unreachable.
type CitiesResult struct {
	Result
	Cities []model.City `json:"cities,omitempty"`
	Stale  bool         `json:"stale,omitempty"`
}

// UserResult carries a single user profile
type UserResult struct {
	Result
	User *model.UserProfile `json:"user,omitempty"`
}

// UsersResult carries a user list
type UsersResult struct {
	Result
	Users []model.UserProfile `json:"users,omitempty"`
}
