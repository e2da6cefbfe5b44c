package model

// Resource identifies one of the four stockpiled resource kinds
type Resource string

const (
	ResourceGold       Resource = "gold"
	ResourceProduction Resource = "production"
	ResourceScience    Resource = "science"
	ResourceMilitary   Resource = "military"
)

// AllResources lists every resource kind in a stable order
var AllResources = []Resource{ResourceGold, ResourceProduction, ResourceScience, ResourceMilitary}

// Cost is a partial resource-amount mapping used for building and
// technology prices and for per-tick technology effects
type Cost map[Resource]int

// Resources is a player's stockpile. Values never go negative: spends
// are validated with CanAfford before Spend is applied.
type Resources struct {
	Gold       int `json:"gold"`
	Production int `json:"production"`
	Science    int `json:"science"`
	Military   int `json:"military"`
}

// StartingResources returns the stockpile every new player begins with
func StartingResources() Resources {
	return Resources{
		Gold:       1000,
		Production: 100,
		Science:    50,
		Military:   75,
	}
}

// Get returns the amount held of the given resource
func (r Resources) Get(res Resource) int {
	switch res {
	case ResourceGold:
		return r.Gold
	case ResourceProduction:
		return r.Production
	case ResourceScience:
		return r.Science
	case ResourceMilitary:
		return r.Military
	}
	return 0
}

// Set overwrites the amount held of the given resource
func (r *Resources) Set(res Resource, amount int) {
	switch res {
	case ResourceGold:
		r.Gold = amount
	case ResourceProduction:
		r.Production = amount
	case ResourceScience:
		r.Science = amount
	case ResourceMilitary:
		r.Military = amount
	}
}

// CanAfford reports whether every resource in the cost is covered
func (r Resources) CanAfford(cost Cost) bool {
	for res, amount := range cost {
		if r.Get(res) < amount {
			return false
		}
	}
	return true
}

// Spend deducts the cost from the stockpile. The deduction is
// all-or-nothing: if any single resource is short, nothing changes and
// ErrInsufficientResources is returned.
func (r *Resources) Spend(cost Cost) error {
	if !r.CanAfford(cost) {
		return ErrInsufficientResources
	}
	for res, amount := range cost {
		r.Set(res, r.Get(res)-amount)
	}
	return nil
}

// Add credits the given amounts to the stockpile
func (r *Resources) Add(amounts Cost) {
	for res, amount := range amounts {
		r.Set(res, r.Get(res)+amount)
	}
}

// Clamp raises any negative value back to zero. Used when merging
// client-supplied deltas, which are not trusted to respect the
// non-negativity invariant.
func (r *Resources) Clamp() {
	for _, res := range AllResources {
		if r.Get(res) < 0 {
			r.Set(res, 0)
		}
	}
}
