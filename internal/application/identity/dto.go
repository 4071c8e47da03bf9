package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// AuthPayload is returned after a successful register or login
type AuthPayload struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
