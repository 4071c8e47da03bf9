package seed

import (
	"sort"
	"strings"

	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/pokeapi"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const englishLanguage = "en"

// ToPokemon builds an official catalog entry from PokeAPI data.
// species may be nil when it could not be fetched.
func ToPokemon(p *pokeapi.Pokemon, species *pokeapi.Species) (*catalog.Pokemon, error) {
	entry, err := catalog.NewOfficialPokemon(
		p.Name,
		p.ID,
		tenths(p.Height),
		tenths(p.Weight),
	)
	if err != nil {
		return nil, err
	}

	if err := entry.SetTypes(typeNames(p.Types)); err != nil {
		return nil, err
	}
	entry.SetAbilities(abilityNames(p.Abilities))
	if err := entry.SetBaseStats(baseStats(p.Stats)); err != nil {
		return nil, err
	}

	art := p.Sprites.OfficialArtwork()
	entry.Image = nonEmpty(art.FrontDefault)
	entry.ImageShiny = nonEmpty(art.FrontShiny)

	if species != nil {
		entry.Description = FlavorText(species.FlavorTextEntries)
		entry.Species = EnglishGenus(species.Genera)
	}
	return entry, nil
}

// tenths converts decimetres to metres and hectograms to kilograms
func tenths(v int) float64 {
	return decimal.New(int64(v), -1).InexactFloat64()
}

// capitalize upper-cases the first letter of every word. A Caser is
// stateful, so each call gets its own.
func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

func typeNames(slots []pokeapi.TypeSlot) []string {
	sorted := append([]pokeapi.TypeSlot(nil), slots...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })

	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, capitalize(s.Type.Name))
	}
	return names
}

// abilityNames turns "lightning-rod" into "Lightning Rod"
func abilityNames(slots []pokeapi.AbilitySlot) []string {
	sorted := append([]pokeapi.AbilitySlot(nil), slots...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })

	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, capitalize(strings.Join(strings.Split(s.Ability.Name, "-"), " ")))
	}
	return names
}

// baseStats returns nil when none of the six stats is present
func baseStats(stats []pokeapi.Stat) *catalog.BaseStats {
	out := &catalog.BaseStats{}
	for _, s := range stats {
		v := s.BaseStat
		switch s.Stat.Name {
		case "hp":
			out.HP = &v
		case "attack":
			out.Attack = &v
		case "defense":
			out.Defense = &v
		case "special-attack":
			out.SpAttack = &v
		case "special-defense":
			out.SpDefense = &v
		case "speed":
			out.Speed = &v
		}
	}
	if *out == (catalog.BaseStats{}) {
		return nil
	}
	return out
}

// FlavorText picks the English entry from the version whose name sorts
// last, the later of equal names winning. Form feeds and newlines from the game text become spaces.
func FlavorText(entries []pokeapi.FlavorText) *string {
	var picked *pokeapi.FlavorText
	for i := range entries {
		e := &entries[i]
		if e.Language.Name != englishLanguage {
			continue
		}
		if picked == nil || e.Version.Name >= picked.Version.Name {
			picked = e
		}
	}
	if picked == nil {
		return nil
	}
	text := strings.NewReplacer("\f", " ", "\n", " ").Replace(picked.FlavorText)
	return &text
}

// EnglishGenus returns the English genus, e.g. "Seed Pokémon"
func EnglishGenus(genera []pokeapi.Genus) *string {
	for _, g := range genera {
		if g.Language.Name == englishLanguage {
			genus := g.Genus
			return &genus
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
