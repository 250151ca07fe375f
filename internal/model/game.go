package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusCompleted GameStatus = "completed"
)

// Game is a single scheduled pickup game. Games are created by schedule
// materialization and mutated by the roster service and the completion
// workflow; they are never deleted.
//
// A user's UID appears in at most one of Waitlist/Players at any instant.
// TeamAssignments may additionally reference a player once placed.
type Game struct {
	ID              GameID              `json:"id"`
	Date            string              `json:"date"` // ISO date, e.g. "2024-03-05"
	Venue           string              `json:"venue"`
	Time            string              `json:"time"`
	ScheduleKey     string              `json:"scheduleKey"`
	CityID          CityID              `json:"cityId,omitempty"`
	Status          GameStatus          `json:"status"`
	Waitlist        []Player            `json:"waitlist"`
	Players         []Player            `json:"players"`
	TeamAssignments map[string][]Player `json:"teamAssignments,omitempty"`
	CompletedAt     *time.Time          `json:"completedAt,omitempty"`
}

// InWaitlist reports whether the user is on the waitlist
func (g *Game) InWaitlist(uid UID) bool {
	return playerIn(g.Waitlist, uid)
}

// InPlayers reports whether the user is on the player list
func (g *Game) InPlayers(uid UID) bool {
	return playerIn(g.Players, uid)
}

func playerIn(list []Player, uid UID) bool {
	for _, p := range list {
		if p.UID == uid {
			return true
		}
	}
	return false
}
