package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing userId in claims")
)

// Claims is the payload of a trainer's bearer token. Clients read userId
// and email; jti identifies the token for logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// GetUserUUID parses the userId claim
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetRemainingTTL is how long the token stays valid, never negative
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// IssuedToken is a signed token with the jti and expiry needed to revoke it
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// JWTService signs and verifies HS256 bearer tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	parser     *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// GetExpiration returns the lifetime given to new tokens
func (s *JWTService) GetExpiration() time.Duration {
	return s.expiration
}

// GenerateToken signs a token for userID. Each token gets a fresh jti so
// logging out one session leaves the others valid.
func (s *JWTService) GenerateToken(userID uuid.UUID, email string) (*IssuedToken, error) {
	issuedAt := time.Now()
	issued := &IssuedToken{ID: uuid.NewString(), ExpiresAt: issuedAt.Add(s.expiration)}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        issued.ID,
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issued.ExpiresAt),
		},
		UserID: userID.String(),
		Email:  email,
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	issued.Token = signed
	return issued, nil
}

// ValidateToken checks signature, algorithm and lifetime and returns the
// claims of a token that names a well-formed user id.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, s.key); err != nil {
		return nil, classify(err)
	}

	switch {
	case claims.UserID == "":
		return nil, ErrMissingUserID
	case uuid.Validate(claims.UserID) != nil:
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

func (s *JWTService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

// classify collapses jwt's detailed errors into the few callers act on
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}
