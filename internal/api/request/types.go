package request

import (
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/cities"
	"github.com/rinkhq/pickup-admin/internal/services/users"
)

// MovePlayerRequest moves a player between roster lists
type MovePlayerRequest struct {
	Player model.Player `json:"player"`
	From   string       `json:"from"`
	To     string       `json:"to"`
}

// AssignTeamsRequest replaces a game's team assignments
type AssignTeamsRequest struct {
	Assignments map[string][]model.Player `json:"assignments"`
}

// RegisterUserRequest creates a user profile
type RegisterUserRequest struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UpdateProfileRequest edits a user profile
type UpdateProfileRequest = users.ProfileInput

// SetAdminRequest grants or revokes admin
type SetAdminRequest struct {
	CityID  string `json:"cityId,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// SetRegularRequest marks a user as a schedule regular
type SetRegularRequest struct {
	Regular bool `json:"regular"`
}

// AddPassRequest grants a user a new pass
type AddPassRequest struct {
	Type string `json:"type"`
}

// UpdatePassRequest replaces a stored pass
type UpdatePassRequest struct {
	Pass model.Pass `json:"pass"`
}

// CityRequest creates or updates a city
type CityRequest = cities.CityInput

// SetCityActiveRequest toggles a city's visibility
type SetCityActiveRequest struct {
	Active bool `json:"active"`
}
