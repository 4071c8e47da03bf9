package models

import (
	"github.com/pokedex/backend/internal/domain/identity"
)

// UserModel maps a trainer account to the users table. Uniqueness is
// enforced on lower(email) by the migration; the uniqueIndex tag keeps
// AutoMigrate-built test schemas equivalent.
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain rebuilds the User aggregate
func (m *UserModel) ToDomain() *identity.User {
	return identity.Reconstruct(m.ID, m.Email, m.PasswordHash, m.CreatedAt, m.UpdatedAt)
}

// UserModelFromDomain maps a User aggregate to its row
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{Email: u.Email, PasswordHash: u.PasswordHash}
	m.setEntity(u.BaseEntity)
	return m
}
