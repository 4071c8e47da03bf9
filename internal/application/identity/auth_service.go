package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/application/validation"
	"github.com/pokedex/backend/internal/domain/identity"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errUserExists = shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates an account and signs the first token
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	log := logger.WithLogger(ctx, s.logger)

	input.Email = identity.NormalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	email := input.Email
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error("Failed to check email availability", zap.Error(err))
		return nil, err
	}
	if exists {
		log.Info("Registration rejected, email taken", zap.String("email", email))
		return nil, errUserExists
	}

	user, err := identity.NewUser(email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			log.Error("Failed to create user", zap.Error(err))
		}
		return nil, err
	}

	log.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// Login verifies credentials and signs a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthPayload, error) {
	log := logger.WithLogger(ctx, s.logger)

	if err := validation.Struct(input); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown email")
			return nil, shared.ErrInvalidCredentials
		}
		log.Error("Failed to load user for login", zap.Error(err))
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// Me returns the account for userID, or nil when anonymous or gone
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// Logout revokes tokenString until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil
		}
		return shared.ErrUnauthorized
	}
	if claims.ID == "" {
		return shared.ErrUnauthorized
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to revoke token", zap.Error(err))
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *identity.User) (*AuthPayload, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to sign token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}
	return &AuthPayload{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      toUserInfo(user),
	}, nil
}
