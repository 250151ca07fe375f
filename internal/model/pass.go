package model

import "time"

// PassID uniquely identifies a game pass within a user's pass set
type PassID string

// PassType determines how many games a pass is good for
type PassType string

const (
	PassOneGame    PassType = "1-game"
	PassFiveGame   PassType = "5-game"
	PassTenGame    PassType = "10-game"
	PassFullSeason PassType = "full-season"
)

// UnlimitedGames is the GamesTotal sentinel for full-season passes.
// Full-season passes never decrement and never become exhausted.
const UnlimitedGames = 999

// PassStatus represents whether a pass can still be debited
type PassStatus string

const (
	PassActive    PassStatus = "active"
	PassExhausted PassStatus = "exhausted"
)

// Pass is a consumable game pass in a user's ledger
type Pass struct {
	ID             PassID        `json:"id"`
	Type           PassType      `json:"type"`
	GamesTotal     int           `json:"gamesTotal"`
	GamesRemaining int           `json:"gamesRemaining"`
	PurchaseDate   time.Time     `json:"purchaseDate"`
	Status         PassStatus    `json:"status"`
	UsageHistory   []UsageRecord `json:"usageHistory"`
}

// UsageRecord is an append-only record of a single pass debit
type UsageRecord struct {
	GameID GameID    `json:"gameId"`
	CityID CityID    `json:"cityId,omitempty"`
	Date   string    `json:"date"`
	Venue  string    `json:"venue"`
	UsedAt time.Time `json:"usedAt"`
}

// GamesTotalFor maps a pass type to its total game count.
// Returns 0 for unknown types.
func GamesTotalFor(t PassType) int {
	switch t {
	case PassOneGame:
		return 1
	case PassFiveGame:
		return 5
	case PassTenGame:
		return 10
	case PassFullSeason:
		return UnlimitedGames
	default:
		return 0
	}
}

// Eligible reports whether the pass can be debited: it must be active,
// and either unlimited or have games remaining.
func (p *Pass) Eligible() bool {
	if p.Status != PassActive {
		return false
	}
	return p.Type == PassFullSeason || p.GamesRemaining > 0
}
