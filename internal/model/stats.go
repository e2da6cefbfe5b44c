package model

// GlobalStats holds process-wide aggregate counts. TotalPlayers and
// ActiveRooms are recomputed on membership changes; TotalGames is a
// cumulative counter incremented whenever a room is created.
type GlobalStats struct {
	TotalPlayers int   `json:"totalPlayers"`
	ActiveRooms  int   `json:"activeGames"`
	TotalGames   int64 `json:"totalGames"`
}
