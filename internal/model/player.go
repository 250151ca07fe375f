package model

// UID uniquely identifies a user across the system
type UID string

// Player is the roster entry for a user on a single game. It is a
// denormalized snapshot of the user at signup time; identity is the UID.
// The store matches array elements by full value equality, so a Player
// used as a removal key must come from a fresh store read, never be
// reconstructed by hand.
type Player struct {
	UID        UID    `json:"uid"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	SkillLevel int    `json:"skillLevel,omitempty"`
}

// RosterList names one of the two mutually exclusive game lists
type RosterList string

const (
	ListWaitlist RosterList = "waitlist"
	ListPlayers  RosterList = "players"
)

// Valid reports whether the list name is one of the known roster lists
func (l RosterList) Valid() bool {
	return l == ListWaitlist || l == ListPlayers
}
