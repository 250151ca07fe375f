package model

import "time"

// CityData holds a user's per-city membership state
type CityData struct {
	IsAdmin     bool            `json:"isAdmin"`
	GamesPlayed int             `json:"gamesPlayed"`
	Regulars    map[string]bool `json:"regulars,omitempty"`
}

// GameHistoryEntry records one game a user attended. Entries are
// append-only and never mutated after creation; there is at most one
// entry per (user, game) pair. PassID is empty when attendance consumed
// no pass (legacy decrement path, or no eligible pass).
type GameHistoryEntry struct {
	GameID      GameID `json:"gameId"`
	CityID      CityID `json:"cityId,omitempty"`
	Date        string `json:"date"`
	ScheduleKey string `json:"scheduleKey"`
	Venue       string `json:"venue"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	PassID      PassID `json:"passId,omitempty"`
}

// UserProfile is the stored profile document for a user.
//
// The legacy single-pass fields (PassType, PassGamesRemaining,
// PassStartDate) are deprecated; after migration a user has either a
// non-empty Passes set or zeroed legacy fields, never meaningfully both.
type UserProfile struct {
	UID        UID    `json:"uid"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	SkillLevel int    `json:"skillLevel,omitempty"`

	// Legacy global fields, used for users without city-scoped data
	IsAdmin     bool            `json:"isAdmin"`
	GamesPlayed int             `json:"gamesPlayed"`
	Regulars    map[string]bool `json:"regulars,omitempty"`

	// Legacy single-pass model (deprecated, migrated into Passes)
	PassType           PassType   `json:"passType,omitempty"`
	PassGamesRemaining int        `json:"passGamesRemaining,omitempty"`
	PassStartDate      *time.Time `json:"passStartDate,omitempty"`

	Passes      []Pass              `json:"passes,omitempty"`
	CityData    map[CityID]CityData `json:"cityData,omitempty"`
	GameHistory []GameHistoryEntry  `json:"gameHistory"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasLegacyPass reports whether the legacy single-pass fields are populated
func (u *UserProfile) HasLegacyPass() bool {
	return u.PassType != ""
}

// PassByID returns a pointer into Passes for the given id, or nil
func (u *UserProfile) PassByID(id PassID) *Pass {
	for i := range u.Passes {
		if u.Passes[i].ID == id {
			return &u.Passes[i]
		}
	}
	return nil
}
