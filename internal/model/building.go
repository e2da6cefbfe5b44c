package model

// BuildingType identifies a constructible building kind
type BuildingType string

const (
	BuildingFactory  BuildingType = "factory"
	BuildingLab      BuildingType = "lab"
	BuildingBarracks BuildingType = "barracks"
)

// Buildings counts how many of each building a player owns
type Buildings struct {
	Factories int `json:"factories"`
	Labs      int `json:"labs"`
	Barracks  int `json:"barracks"`
}

// StartingBuildings returns the buildings every new player begins with
func StartingBuildings() Buildings {
	return Buildings{
		Factories: 5,
		Labs:      3,
		Barracks:  2,
	}
}

// Count returns how many buildings of the given type are owned
func (b Buildings) Count(t BuildingType) int {
	switch t {
	case BuildingFactory:
		return b.Factories
	case BuildingLab:
		return b.Labs
	case BuildingBarracks:
		return b.Barracks
	}
	return 0
}

// Increment adds one building of the given type
func (b *Buildings) Increment(t BuildingType) {
	switch t {
	case BuildingFactory:
		b.Factories++
	case BuildingLab:
		b.Labs++
	case BuildingBarracks:
		b.Barracks++
	}
}

// Clamp raises any negative count back to zero
func (b *Buildings) Clamp() {
	if b.Factories < 0 {
		b.Factories = 0
	}
	if b.Labs < 0 {
		b.Labs = 0
	}
	if b.Barracks < 0 {
		b.Barracks = 0
	}
}

// BuildingSpec holds the static price and per-unit per-tick yield of a
// building type
type BuildingSpec struct {
	Type  BuildingType
	Cost  Cost
	Yield Cost
}

// buildingCatalog is the authoritative price/yield table. Client-declared
// costs on the wire are ignored in favor of this table.
var buildingCatalog = map[BuildingType]BuildingSpec{
	BuildingFactory: {
		Type:  BuildingFactory,
		Cost:  Cost{ResourceGold: 500, ResourceProduction: 50},
		Yield: Cost{ResourceGold: 20, ResourceProduction: 5},
	},
	BuildingLab: {
		Type:  BuildingLab,
		Cost:  Cost{ResourceGold: 800, ResourceScience: 30},
		Yield: Cost{ResourceScience: 8},
	},
	BuildingBarracks: {
		Type:  BuildingBarracks,
		Cost:  Cost{ResourceGold: 600, ResourceMilitary: 25},
		Yield: Cost{ResourceMilitary: 3},
	},
}

// BuildingSpecFor returns the catalog entry for a building type
func BuildingSpecFor(t BuildingType) (BuildingSpec, bool) {
	spec, ok := buildingCatalog[t]
	return spec, ok
}

// AllBuildingTypes lists the constructible building types in a stable order
var AllBuildingTypes = []BuildingType{BuildingFactory, BuildingLab, BuildingBarracks}
