package cli

import (
	"encoding/json"
	"fmt"
	"os"
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

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case StatsResult:
		o.printStatsResult(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case JoinResult:
		o.printJoinResult(v)
	case Room:
		o.printRoom(v)
	case Player:
		o.printPlayer(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type (matches API)
type HealthResult struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Players     int       `json:"players"`
}

// StatsResult response type
type StatsResult struct {
	TotalPlayers  int       `json:"totalPlayers"`
	ActiveGames   int       `json:"activeGames"`
	TotalGames    int64     `json:"totalGames"`
	OnlinePlayers int       `json:"onlinePlayers"`
	Timestamp     time.Time `json:"timestamp"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	PowerScore int    `json:"powerScore"`
}

// RoomMember response type
type RoomMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	PowerScore int    `json:"powerScore"`
}

// JoinResult response type
type JoinResult struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Room     Room   `json:"room"`
}

// Room response type
type Room struct {
	ID       string       `json:"id"`
	Status   string       `json:"status"`
	Capacity int          `json:"capacity"`
	Players  []RoomMember `json:"players"`
}

// Player response type
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Resources struct {
		Gold       int `json:"gold"`
		Production int `json:"production"`
		Science    int `json:"science"`
		Military   int `json:"military"`
	} `json:"resources"`
	Stats struct {
		Population int `json:"population"`
		Happiness  int `json:"happiness"`
		PowerScore int `json:"powerScore"`
	} `json:"stats"`
	Technologies []string `json:"technologies"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Environment: %s\n", h.Environment)
	fmt.Printf("Players: %d\n", h.Players)
	fmt.Printf("Time: %s\n", h.Timestamp.Format(time.RFC3339))
}

func (o *Output) printStatsResult(s StatsResult) {
	fmt.Printf("Players: %d (%d online)\n", s.TotalPlayers, s.OnlinePlayers)
	fmt.Printf("Active Games: %d\n", s.ActiveGames)
	fmt.Printf("Total Games: %d\n", s.TotalGames)
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("No players yet")
		return
	}
	for i, e := range entries {
		fmt.Printf("%3d. %s (%s) - %d\n", i+1, e.Name, e.Country, e.PowerScore)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Player: %s\n", j.PlayerID)
	o.printRoom(j.Room)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Players (%d/%d):\n", len(r.Players), r.Capacity)
	for _, p := range r.Players {
		fmt.Printf("  - %s (%s) - %d\n", p.Name, p.Country, p.PowerScore)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Country: %s\n", p.Country)
	fmt.Printf("Gold: %d  Production: %d  Science: %d  Military: %d\n",
		p.Resources.Gold, p.Resources.Production, p.Resources.Science, p.Resources.Military)
	fmt.Printf("Power Score: %d\n", p.Stats.PowerScore)
	if len(p.Technologies) > 0 {
		fmt.Printf("Technologies: %v\n", p.Technologies)
	}
}
