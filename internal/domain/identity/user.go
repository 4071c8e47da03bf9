package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a registered trainer account.
// It is the aggregate root for authentication.
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
}

// NewUser creates a new user, normalizing the email and hashing the password
func NewUser(email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// Reconstruct rebuilds a user from persisted state without re-hashing
func Reconstruct(id uuid.UUID, email, passwordHash string, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// VerifyPassword checks the plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_INPUT", "Password is required")
	}
	if len(password) > maxPasswordBytes {
		return shared.NewDomainError("INVALID_INPUT", "Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
