package pokeapi

// NamedResource is a name plus the URL of the full resource
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ResourceList is one page of a list endpoint
type ResourceList struct {
	Count   int             `json:"count"`
	Next    *string         `json:"next"`
	Results []NamedResource `json:"results"`
}

// Pokemon is the subset of /pokemon/{id} the catalog imports.
// Height is in decimetres and weight in hectograms.
type Pokemon struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Stats     []Stat        `json:"stats"`
	Sprites   Sprites       `json:"sprites"`
	Species   NamedResource `json:"species"`
}

// TypeSlot is one of an entry's types
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one of an entry's abilities
type AbilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  NamedResource `json:"ability"`
}

// Stat is a base stat value
type Stat struct {
	BaseStat int           `json:"base_stat"`
	Stat     NamedResource `json:"stat"`
}

// Sprites holds the artwork variants keyed by source, e.g. "official-artwork"
type Sprites struct {
	Other map[string]Artwork `json:"other"`
}

// Artwork is a pair of sprite URLs
type Artwork struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

// OfficialArtwork returns the official artwork, if present
func (s Sprites) OfficialArtwork() Artwork {
	return s.Other["official-artwork"]
}

// Species is the subset of /pokemon-species/{id} the catalog imports
type Species struct {
	FlavorTextEntries []FlavorText `json:"flavor_text_entries"`
	Genera            []Genus      `json:"genera"`
}

// FlavorText is a game's description of an entry
type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

// Genus is the localised species category, e.g. "Mouse Pokémon"
type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}
