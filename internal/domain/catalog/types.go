package catalog

import "strings"

// PokemonType is one of the eighteen elemental types
type PokemonType string

const (
	TypeNormal   PokemonType = "Normal"
	TypeFire     PokemonType = "Fire"
	TypeWater    PokemonType = "Water"
	TypeElectric PokemonType = "Electric"
	TypeGrass    PokemonType = "Grass"
	TypeIce      PokemonType = "Ice"
	TypeFighting PokemonType = "Fighting"
	TypePoison   PokemonType = "Poison"
	TypeGround   PokemonType = "Ground"
	TypeFlying   PokemonType = "Flying"
	TypePsychic  PokemonType = "Psychic"
	TypeBug      PokemonType = "Bug"
	TypeRock     PokemonType = "Rock"
	TypeGhost    PokemonType = "Ghost"
	TypeDragon   PokemonType = "Dragon"
	TypeDark     PokemonType = "Dark"
	TypeSteel    PokemonType = "Steel"
	TypeFairy    PokemonType = "Fairy"
)

// AllTypes lists every type in canonical order
var AllTypes = []PokemonType{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

// ParseType matches a type name case-insensitively
func ParseType(s string) (PokemonType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range AllTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// IsValidType reports whether s names a known type
func IsValidType(s string) bool {
	_, ok := ParseType(s)
	return ok
}
