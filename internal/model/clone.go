package model

// Clone returns a copy of the set
func (s TechSet) Clone() TechSet {
	out := make(TechSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// Clone returns a copy of the set
func (s PlayerIDSet) Clone() PlayerIDSet {
	out := make(PlayerIDSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// Clone returns a deep copy of the player record. Stores hand out clones
// so callers never share mutable state with the store.
func (p *Player) Clone() *Player {
	out := *p
	out.Technologies = p.Technologies.Clone()
	out.Alliances = p.Alliances.Clone()
	out.Wars = p.Wars.Clone()
	return &out
}

// Clone returns a deep copy of the room record
func (r *Room) Clone() *Room {
	out := *r
	out.Members = make(map[PlayerID]bool, len(r.Members))
	for id := range r.Members {
		out.Members[id] = true
	}
	return &out
}
