package catalog

// typeChart maps a defending type to the attacking types that are
// super-effective against it.
var typeChart = map[PokemonType][]PokemonType{
	TypeNormal:   {TypeFighting},
	TypeFire:     {TypeWater, TypeGround, TypeRock},
	TypeWater:    {TypeElectric, TypeGrass},
	TypeElectric: {TypeGround},
	TypeGrass:    {TypeFire, TypeIce, TypePoison, TypeFlying, TypeBug},
	TypeIce:      {TypeFire, TypeFighting, TypeRock, TypeSteel},
	TypeFighting: {TypeFlying, TypePsychic, TypeFairy},
	TypePoison:   {TypeGround, TypePsychic},
	TypeGround:   {TypeWater, TypeGrass, TypeIce},
	TypeFlying:   {TypeElectric, TypeIce, TypeRock},
	TypePsychic:  {TypeBug, TypeGhost, TypeDark},
	TypeBug:      {TypeFire, TypeFlying, TypeRock},
	TypeRock:     {TypeWater, TypeGrass, TypeFighting, TypeGround, TypeSteel},
	TypeGhost:    {TypeGhost, TypeDark},
	TypeDragon:   {TypeIce, TypeDragon, TypeFairy},
	TypeDark:     {TypeFighting, TypeBug, TypeFairy},
	TypeSteel:    {TypeFire, TypeFighting, TypeGround},
	TypeFairy:    {TypePoison, TypeSteel},
}

// CalculateWeaknesses returns the union of weaknesses for the given types,
// de-duplicated and in first-seen order. Unknown types contribute nothing.
func CalculateWeaknesses(types []string) []string {
	weaknesses := make([]string, 0)
	seen := make(map[PokemonType]struct{})
	for _, name := range types {
		t, ok := ParseType(name)
		if !ok {
			continue
		}
		for _, w := range typeChart[t] {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			weaknesses = append(weaknesses, string(w))
		}
	}
	return weaknesses
}

// AttackersOf returns the defending types that are weak to the given type.
// An entry has weakness w exactly when one of its types is in AttackersOf(w).
func AttackersOf(weakness string) []string {
	w, ok := ParseType(weakness)
	if !ok {
		return []string{}
	}
	defenders := make([]string, 0)
	for _, def := range AllTypes {
		for _, atk := range typeChart[def] {
			if atk == w {
				defenders = append(defenders, string(def))
				break
			}
		}
	}
	return defenders
}
