package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists trainer accounts. Lookups that miss return
// shared.ErrNotFound; emails compare case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
