package model

import (
	"encoding/json"
	"sort"
)

// TechID uniquely identifies a technology in the static graph
type TechID string

// Technology is an unlockable modifier with prerequisites, a one-time
// cost, and a recurring per-tick resource effect. Technologies are
// immutable after process start.
type Technology struct {
	ID            TechID
	Name          string
	Category      string
	Cost          Cost
	Effects       Cost
	Prerequisites []TechID
}

// TechSet is a player's unlocked technologies. The set only grows: ids
// are added by research and never removed.
type TechSet map[TechID]bool

// NewTechSet returns an empty technology set
func NewTechSet() TechSet {
	return make(TechSet)
}

// Has reports whether the technology is unlocked
func (s TechSet) Has(id TechID) bool {
	return s[id]
}

// Add unlocks a technology
func (s TechSet) Add(id TechID) {
	s[id] = true
}

// IDs returns the unlocked ids in sorted order
func (s TechSet) IDs() []TechID {
	ids := make([]TechID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalJSON encodes the set as a sorted array of ids, matching the
// wire format clients expect
func (s TechSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of ids into the set
func (s *TechSet) UnmarshalJSON(data []byte) error {
	var ids []TechID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(TechSet, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	*s = set
	return nil
}
