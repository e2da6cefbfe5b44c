package model

import (
	"encoding/json"
	"sort"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// PlayerStats holds a player's derived and cosmetic statistics.
// PowerScore is recomputed from resource holdings on every tick.
type PlayerStats struct {
	Population int `json:"population"`
	Happiness  int `json:"happiness"`
	PowerScore int `json:"powerScore"`
}

// StartingStats returns the stats every new player begins with
func StartingStats() PlayerStats {
	return PlayerStats{
		Population: 50_000_000,
		Happiness:  85,
		PowerScore: 1250,
	}
}

// PlayerIDSet is a set of player ids, used for alliances and wars
type PlayerIDSet map[PlayerID]bool

// NewPlayerIDSet returns an empty player id set
func NewPlayerIDSet() PlayerIDSet {
	return make(PlayerIDSet)
}

// MarshalJSON encodes the set as a sorted array of ids
func (s PlayerIDSet) MarshalJSON() ([]byte, error) {
	ids := make([]PlayerID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids into the set
func (s *PlayerIDSet) UnmarshalJSON(data []byte) error {
	var ids []PlayerID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(PlayerIDSet, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	*s = set
	return nil
}

// Player is one connected identity's full game state. Player records are
// owned by the registry; rooms and connections hold only the id.
type Player struct {
	ID           PlayerID    `json:"id"`
	Name         string      `json:"name"`
	Country      string      `json:"country"`
	Resources    Resources   `json:"resources"`
	Buildings    Buildings   `json:"buildings"`
	Technologies TechSet     `json:"technologies"`
	Stats        PlayerStats `json:"stats"`
	Alliances    PlayerIDSet `json:"alliances"`
	Wars         PlayerIDSet `json:"wars"`
	JoinedAt     time.Time   `json:"joinedAt"`
	LastActiveAt time.Time   `json:"lastActiveAt"`
}

// PlayerDelta is the whitelisted partial update a client may apply to its
// own record. Identity, the technology set, and timestamps are not
// client-writable.
type PlayerDelta struct {
	Resources *Resources   `json:"resources,omitempty"`
	Buildings *Buildings   `json:"buildings,omitempty"`
	Stats     *PlayerStats `json:"stats,omitempty"`
	Alliances *PlayerIDSet `json:"alliances,omitempty"`
	Wars      *PlayerIDSet `json:"wars,omitempty"`
}

// Apply merges the delta into the player record. Resource and building
// counts are clamped at zero afterwards.
func (d PlayerDelta) Apply(p *Player) {
	if d.Resources != nil {
		p.Resources = *d.Resources
		p.Resources.Clamp()
	}
	if d.Buildings != nil {
		p.Buildings = *d.Buildings
		p.Buildings.Clamp()
	}
	if d.Stats != nil {
		p.Stats = *d.Stats
	}
	if d.Alliances != nil {
		p.Alliances = *d.Alliances
	}
	if d.Wars != nil {
		p.Wars = *d.Wars
	}
}
