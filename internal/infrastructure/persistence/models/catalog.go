package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pokedex/backend/internal/domain/catalog"
)

// PokemonModel is the persistence model for the Pokemon domain entity.
type PokemonModel struct {
	BaseModel
	Name            string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	PokedexID       *int           `gorm:"column:pokedex_id;index"`
	Height          float64        `gorm:"not null"`
	Weight          float64        `gorm:"not null"`
	Image           *string        `gorm:"type:text"`
	ImageShiny      *string        `gorm:"type:text"`
	Types           pq.StringArray `gorm:"type:text[];not null"`
	Abilities       pq.StringArray `gorm:"type:text[];not null"`
	BaseStats       *BaseStatsJSON `gorm:"type:jsonb"`
	Description     *string        `gorm:"type:text"`
	Species         *string        `gorm:"type:varchar(100)"`
	IsCustom        bool           `gorm:"not null;index"`
	CreatedByUserID *uuid.UUID     `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PokemonModel) TableName() string {
	return "pokemons"
}

// ToDomain converts the persistence model to a domain Pokemon entity.
func (m *PokemonModel) ToDomain() *catalog.Pokemon {
	var stats *catalog.BaseStats
	if m.BaseStats != nil {
		s := catalog.BaseStats(*m.BaseStats)
		stats = &s
	}
	return catalog.Reconstruct(m.ID, m.CreatedAt, m.UpdatedAt, catalog.Pokemon{
		Name:            m.Name,
		PokedexID:       m.PokedexID,
		Height:          m.Height,
		Weight:          m.Weight,
		Image:           m.Image,
		ImageShiny:      m.ImageShiny,
		Types:           []string(m.Types),
		Abilities:       []string(m.Abilities),
		BaseStats:       stats,
		Description:     m.Description,
		Species:         m.Species,
		IsCustom:        m.IsCustom,
		CreatedByUserID: m.CreatedByUserID,
	})
}

// FromDomain populates the persistence model from a domain Pokemon entity.
func (m *PokemonModel) FromDomain(p *catalog.Pokemon) {
	m.setEntity(p.BaseEntity)
	m.Name = p.Name
	m.PokedexID = p.PokedexID
	m.Height = p.Height
	m.Weight = p.Weight
	m.Image = p.Image
	m.ImageShiny = p.ImageShiny
	m.Types = nonNil(p.Types)
	m.Abilities = nonNil(p.Abilities)
	m.BaseStats = nil
	if p.BaseStats != nil {
		s := BaseStatsJSON(*p.BaseStats)
		m.BaseStats = &s
	}
	m.Description = p.Description
	m.Species = p.Species
	m.IsCustom = p.IsCustom
	m.CreatedByUserID = p.CreatedByUserID
}

// PokemonModelFromDomain creates a new persistence model from a domain Pokemon entity.
func PokemonModelFromDomain(p *catalog.Pokemon) *PokemonModel {
	m := &PokemonModel{}
	m.FromDomain(p)
	return m
}

func nonNil(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

// BaseStatsJSON stores base stats in a jsonb column
type BaseStatsJSON catalog.BaseStats

// Value implements driver.Valuer
func (s BaseStatsJSON) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *BaseStatsJSON) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = BaseStatsJSON{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BaseStatsJSON", value)
	}
	return json.Unmarshal(data, s)
}
