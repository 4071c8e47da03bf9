package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/identity"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")

// GormUserRepository stores trainer accounts in the users table
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new account. The unique index on lower(email) turns a
// concurrent duplicate registration into ALREADY_EXISTS.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	if err := r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error; err != nil {
		if isUniqueViolation(err) {
			return errEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID finds an account by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail finds an account by email, ignoring case
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(r.byEmail(ctx, email))
}

// ExistsByEmail reports whether an account already uses email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.byEmail(ctx, email).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (r *GormUserRepository) byEmail(ctx context.Context, email string) *gorm.DB {
	return r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormUserRepository) findOne(query *gorm.DB) (*identity.User, error) {
	var model models.UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return model.ToDomain(), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
