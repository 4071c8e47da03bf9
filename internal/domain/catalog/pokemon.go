package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/shared"
)

const maxNameLength = 100

// BaseStats holds the six base stats. Any stat may be unknown.
type BaseStats struct {
	HP        *int `json:"hp,omitempty"`
	Attack    *int `json:"attack,omitempty"`
	Defense   *int `json:"defense,omitempty"`
	SpAttack  *int `json:"spAttack,omitempty"`
	SpDefense *int `json:"spDefense,omitempty"`
	Speed     *int `json:"speed,omitempty"`
}

// Validate rejects negative stats
func (s *BaseStats) Validate() error {
	if s == nil {
		return nil
	}
	for _, v := range []*int{s.HP, s.Attack, s.Defense, s.SpAttack, s.SpDefense, s.Speed} {
		if v != nil && *v < 0 {
			return shared.NewDomainError("INVALID_INPUT", "Base stats cannot be negative")
		}
	}
	return nil
}

// Pokemon is a catalog entry. Official entries come from the seeder and are
// read-only; custom entries belong to the user who created them.
type Pokemon struct {
	shared.BaseEntity
	Name            string
	PokedexID       *int
	Height          float64
	Weight          float64
	Image           *string
	ImageShiny      *string
	Types           []string
	Abilities       []string
	BaseStats       *BaseStats
	Description     *string
	Species         *string
	IsCustom        bool
	CreatedByUserID *uuid.UUID
}

// NewCustomPokemon creates a user-owned entry
func NewCustomPokemon(owner uuid.UUID, name string, pokedexID int, height, weight float64) (*Pokemon, error) {
	if owner == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	p, err := newPokemon(name, height, weight)
	if err != nil {
		return nil, err
	}
	p.PokedexID = &pokedexID
	p.IsCustom = true
	p.CreatedByUserID = &owner
	return p, nil
}

// NewOfficialPokemon creates an entry imported from the reference catalog
func NewOfficialPokemon(name string, pokedexID int, height, weight float64) (*Pokemon, error) {
	p, err := newPokemon(name, height, weight)
	if err != nil {
		return nil, err
	}
	p.PokedexID = &pokedexID
	return p, nil
}

func newPokemon(name string, height, weight float64) (*Pokemon, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateMeasurements(height, weight); err != nil {
		return nil, err
	}
	return &Pokemon{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Height:     height,
		Weight:     weight,
		Types:      []string{},
		Abilities:  []string{},
	}, nil
}

// Rename changes the entry name
func (p *Pokemon) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetMeasurements updates height (m) and weight (kg)
func (p *Pokemon) SetMeasurements(height, weight float64) error {
	if err := validateMeasurements(height, weight); err != nil {
		return err
	}
	p.Height = height
	p.Weight = weight
	p.Touch()
	return nil
}

// SetTypes replaces the elemental types. Unknown types are rejected.
func (p *Pokemon) SetTypes(types []string) error {
	normalized := make([]string, 0, len(types))
	for _, t := range types {
		pt, ok := ParseType(t)
		if !ok {
			return shared.NewDomainError("INVALID_INPUT", "Unknown Pokemon type: "+t)
		}
		normalized = appendUnique(normalized, string(pt))
	}
	p.Types = normalized
	p.Touch()
	return nil
}

// SetAbilities replaces the abilities list
func (p *Pokemon) SetAbilities(abilities []string) {
	cleaned := make([]string, 0, len(abilities))
	for _, a := range abilities {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = appendUnique(cleaned, a)
		}
	}
	p.Abilities = cleaned
	p.Touch()
}

// SetBaseStats replaces the base stats
func (p *Pokemon) SetBaseStats(stats *BaseStats) error {
	if err := stats.Validate(); err != nil {
		return err
	}
	p.BaseStats = stats
	p.Touch()
	return nil
}

// Weaknesses returns the types this entry is weak against
func (p *Pokemon) Weaknesses() []string {
	return CalculateWeaknesses(p.Types)
}

// IsOwnedBy reports whether the entry is custom and created by userID
func (p *Pokemon) IsOwnedBy(userID uuid.UUID) bool {
	return p.IsCustom && p.CreatedByUserID != nil && *p.CreatedByUserID == userID
}

// CheckModifiable returns an error unless userID may edit this entry
func (p *Pokemon) CheckModifiable(userID uuid.UUID) error {
	return p.checkOwnership(userID, "modify")
}

// CheckDeletable returns an error unless userID may delete this entry
func (p *Pokemon) CheckDeletable(userID uuid.UUID) error {
	return p.checkOwnership(userID, "delete")
}

func (p *Pokemon) checkOwnership(userID uuid.UUID, action string) error {
	if p.IsCustom && !p.IsOwnedBy(userID) {
		return shared.NewDomainError("FORBIDDEN", "Not authorized to "+action+" this Pokemon")
	}
	if !p.IsCustom {
		return shared.NewDomainError("FORBIDDEN", "Cannot "+action+" official Pokemon")
	}
	return nil
}

// Reconstruct rebuilds an entry from persisted state
func Reconstruct(id uuid.UUID, createdAt, updatedAt time.Time, p Pokemon) *Pokemon {
	p.BaseEntity = shared.BaseEntity{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt}
	if p.Types == nil {
		p.Types = []string{}
	}
	if p.Abilities == nil {
		p.Abilities = []string{}
	}
	return &p
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Pokemon name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewDomainError("INVALID_INPUT", "Pokemon name cannot exceed 100 characters")
	}
	return nil
}

func validateMeasurements(height, weight float64) error {
	if height < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Height cannot be negative")
	}
	if weight < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Weight cannot be negative")
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
