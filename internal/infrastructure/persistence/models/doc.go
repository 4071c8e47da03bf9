// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain layer stays free of
// ORM tags. Each model has ToDomain/FromDomain mappers used by the repositories.
//
// Structure:
//   - base.go: BaseModel shared by all tables
//   - identity.go: users
//   - catalog.go: pokemons, plus the jsonb base stats column type
package models
