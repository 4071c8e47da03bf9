package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/shared"
)

// BaseModel holds the key and timestamps shared by users and pokemons.
// IDs are assigned by the domain, never by the database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) setEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}
