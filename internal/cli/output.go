package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameResult:
		o.printGame(v.Game)
	case GamesResult:
		o.printGames(v.Games)
	case PassResult:
		o.printPass(v.Pass)
	case PassesResult:
		o.printPasses(v.Passes)
	case MigrationResult:
		o.printMigration(v)
	case CompletionResult:
		o.printReport(v.Report)
	case CityResult:
		o.printCity(v.City)
	case CitiesResult:
		o.printCities(v)
	case UserResult:
		o.printUser(v.User)
	case UsersResult:
		o.printUsers(v.Users)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	SkillLevel int    `json:"skillLevel,omitempty"`
}

// Game response type
type Game struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Venue       string   `json:"venue"`
	Time        string   `json:"time"`
	ScheduleKey string   `json:"scheduleKey"`
	CityID      string   `json:"cityId,omitempty"`
	Status      string   `json:"status"`
	Waitlist    []Player `json:"waitlist"`
	Players     []Player `json:"players"`
}

// Pass response type
type Pass struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	GamesTotal     int       `json:"gamesTotal"`
	GamesRemaining int       `json:"gamesRemaining"`
	PurchaseDate   time.Time `json:"purchaseDate"`
	Status         string    `json:"status"`
}

// City response type
type City struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IsActive    bool   `json:"isActive"`
}

// User response type
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	IsAdmin     bool   `json:"isAdmin"`
	Passes      []Pass `json:"passes,omitempty"`
}

// PlayerOutcome response type
type PlayerOutcome struct {
	UID           string `json:"uid"`
	PassID        string `json:"passId,omitempty"`
	LegacyDebited bool   `json:"legacyDebited"`
}

// SkippedPlayer response type
type SkippedPlayer struct {
	UID    string `json:"uid"`
	Reason string `json:"reason"`
}

// Report response type
type Report struct {
	GameID      string          `json:"gameId"`
	CompletedAt time.Time       `json:"completedAt"`
	Players     []PlayerOutcome `json:"players"`
	Skipped     []SkippedPlayer `json:"skipped,omitempty"`
}

// Response envelopes (match the API result shapes)

type GameResult struct {
	Success bool `json:"success"`
	Game    Game `json:"game"`
}

type GamesResult struct {
	Success bool   `json:"success"`
	Games   []Game `json:"games"`
}

type PassResult struct {
	Success bool `json:"success"`
	Pass    Pass `json:"pass"`
}

type PassesResult struct {
	Success bool   `json:"success"`
	Passes  []Pass `json:"passes"`
}

type MigrationResult struct {
	Success  bool `json:"success"`
	Migrated bool `json:"migrated"`
}

type CompletionResult struct {
	Success bool   `json:"success"`
	Report  Report `json:"report"`
}

type CityResult struct {
	Success bool `json:"success"`
	City    City `json:"city"`
}

type CitiesResult struct {
	Success bool   `json:"success"`
	Cities  []City `json:"cities"`
	Stale   bool   `json:"stale,omitempty"`
}

type UserResult struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

type UsersResult struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Date: %s %s\n", g.Date, g.Time)
	fmt.Printf("Venue: %s\n", g.Venue)
	if g.CityID != "" {
		fmt.Printf("City: %s\n", g.CityID)
	}
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		fmt.Printf("  - %s (%s)\n", p.Name, p.UID)
	}
	if len(g.Waitlist) > 0 {
		fmt.Printf("Waitlist (%d):\n", len(g.Waitlist))
		for _, p := range g.Waitlist {
			fmt.Printf("  - %s (%s)\n", p.Name, p.UID)
		}
	}
}

func (o *Output) printGames(games []Game) {
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		fmt.Printf("  %s  %s %s  %s  %s  %d players, %d waitlisted\n",
			g.ID, g.Date, g.Time, g.Venue, g.Status, len(g.Players), len(g.Waitlist))
	}
}

func (o *Output) printPass(p Pass) {
	remaining := fmt.Sprintf("%d/%d", p.GamesRemaining, p.GamesTotal)
	if p.Type == "full-season" {
		remaining = "unlimited"
	}
	fmt.Printf("Pass: %s\n", p.ID)
	fmt.Printf("Type: %s\n", p.Type)
	fmt.Printf("Remaining: %s\n", remaining)
	fmt.Printf("Purchased: %s\n", p.PurchaseDate.Format("2006-01-02"))
	fmt.Printf("Status: %s\n", p.Status)
}

func (o *Output) printPasses(passes []Pass) {
	fmt.Printf("Passes (%d):\n", len(passes))
	for _, p := range passes {
		remaining := fmt.Sprintf("%d/%d", p.GamesRemaining, p.GamesTotal)
		if p.Type == "full-season" {
			remaining = "unlimited"
		}
		fmt.Printf("  %s  %-12s %-10s %s  purchased %s\n",
			p.ID, p.Type, remaining, p.Status, p.PurchaseDate.Format("2006-01-02"))
	}
}

func (o *Output) printMigration(m MigrationResult) {
	if m.Migrated {
		fmt.Println("Legacy pass migrated")
	} else {
		fmt.Println("Nothing to migrate")
	}
}

func (o *Output) printReport(r Report) {
	fmt.Printf("Game %s completed at %s\n", r.GameID, r.CompletedAt.Format(time.RFC3339))
	fmt.Printf("Players charged (%d):\n", len(r.Players))
	for _, p := range r.Players {
		charge := "no pass"
		if p.PassID != "" {
			charge = "pass " + p.PassID
		} else if p.LegacyDebited {
			charge = "legacy balance"
		}
		fmt.Printf("  - %s: %s\n", p.UID, charge)
	}
	if len(r.Skipped) > 0 {
		fmt.Printf("Skipped (%d):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Printf("  - %s: %s\n", s.UID, s.Reason)
		}
	}
}

func (o *Output) printCity(c City) {
	activeStr := "active"
	if !c.IsActive {
		activeStr = "inactive"
	}
	fmt.Printf("City: %s (%s)\n", c.DisplayName, c.ID)
	fmt.Printf("Status: %s\n", activeStr)
}

func (o *Output) printCities(res CitiesResult) {
	header := fmt.Sprintf("Cities (%d):", len(res.Cities))
	if res.Stale {
		header += " [stale]"
	}
	fmt.Println(header)
	for _, c := range res.Cities {
		flags := []string{}
		if !c.IsActive {
			flags = append(flags, "inactive")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  %s  %s%s\n", c.ID, c.DisplayName, suffix)
	}
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.UID)
	if u.Email != "" {
		fmt.Printf("Email: %s\n", u.Email)
	}
	fmt.Printf("Games Played: %d\n", u.GamesPlayed)
	if u.IsAdmin {
		fmt.Println("Admin: yes")
	}
	if len(u.Passes) > 0 {
		o.printPasses(u.Passes)
	}
}

func (o *Output) printUsers(users []User) {
	fmt.Printf("Users (%d):\n", len(users))
	for _, u := range users {
		adminStr := ""
		if u.IsAdmin {
			adminStr = " [admin]"
		}
		fmt.Printf("  %s  %s%s\n", u.UID, u.Name, adminStr)
	}
}
