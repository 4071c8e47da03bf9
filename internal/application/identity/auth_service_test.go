package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/identity"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

var testJWTConfig = config.JWTConfig{
	Secret:     "test-secret-key-for-unit-tests-only",
	Expiration: 7 * 24 * time.Hour,
	Issuer:     "pokedex-test",
}

type authFixture struct {
	service   *AuthService
	repo      *MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	logs      *observer.ObservedLogs
}

func newAuthFixture() *authFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	repo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &authFixture{
		service:   NewAuthService(repo, jwtService, blacklist, zap.New(core)),
		repo:      repo,
		jwt:       jwtService,
		blacklist: blacklist,
		logs:      logs,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and signs token", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", ctx, "ash@pallet.town").Return(false, nil)
		f.repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		payload, err := f.service.Register(ctx, RegisterInput{Email: "  Ash@Pallet.Town ", Password: "pikachu"})
		require.NoError(t, err)
		assert.Equal(t, "ash@pallet.town", payload.User.Email)
		assert.NotEqual(t, uuid.Nil, payload.User.ID)

		claims, err := f.jwt.ValidateToken(payload.Token)
		require.NoError(t, err)
		assert.Equal(t, payload.User.ID.String(), claims.UserID)
		assert.Equal(t, "ash@pallet.town", claims.Email)
		assert.WithinDuration(t, time.Now().Add(testJWTConfig.Expiration), payload.ExpiresAt, time.Minute)

		created := f.repo.Calls[1].Arguments.Get(1).(*identity.User)
		assert.True(t, created.VerifyPassword("pikachu"))
		assert.Equal(t, 1, f.logs.FilterMessage("User registered").Len())
		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", ctx, "ash@pallet.town").Return(true, nil)

		_, err := f.service.Register(ctx, RegisterInput{Email: "ash@pallet.town", Password: "pikachu"})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, "User with this email already exists", err.Error())
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate detected on insert", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", ctx, "ash@pallet.town").Return(false, nil)
		f.repo.On("Create", ctx, mock.Anything).Return(errUserExists)

		_, err := f.service.Register(ctx, RegisterInput{Email: "ash@pallet.town", Password: "pikachu"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, 0, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("padded email is trimmed before validation", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", ctx, "ash@pallet.town").Return(false, nil)
		f.repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		payload, err := f.service.Register(ctx, RegisterInput{Email: " ash@pallet.town", Password: "pikachu"})
		require.NoError(t, err)
		assert.Equal(t, "ash@pallet.town", payload.User.Email)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newAuthFixture()
		for _, input := range []RegisterInput{
			{Email: "", Password: "pikachu"},
			{Email: "not-an-email", Password: "pikachu"},
			{Email: "   ", Password: "pikachu"},
			{Email: " not-an-email ", Password: "pikachu"},
			{Email: "ash@pallet.town", Password: ""},
		} {
			_, err := f.service.Register(ctx, input)
			assert.ErrorIs(t, err, shared.ErrInvalidInput, "input %+v", input)
		}
		f.repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, errors.New("connection refused"))

		_, err := f.service.Register(ctx, RegisterInput{Email: "ash@pallet.town", Password: "pikachu"})
		assert.EqualError(t, err, "connection refused")
		assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 16)
	user, err := identity.NewUser(email, password)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("FindByEmail", ctx, user.Email).Return(user, nil)

		payload, err := f.service.Login(ctx, LoginInput{Email: email, Password: password})
		require.NoError(t, err)
		assert.Equal(t, user.ID, payload.User.ID)
		assert.NotEmpty(t, payload.Token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		f.repo.On("FindByEmail", ctx, "misty@cerulean.city").Return(nil, shared.ErrNotFound)

		_, wrongPassword := f.service.Login(ctx, LoginInput{Email: email, Password: "wrong"})
		_, unknownEmail := f.service.Login(ctx, LoginInput{Email: "misty@cerulean.city", Password: password})

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.Equal(t, "Invalid email or password", wrongPassword.Error())
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
		assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.service.Login(ctx, LoginInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	user, err := identity.NewUser("ash@pallet.town", "pikachu")
	require.NoError(t, err)

	f := newAuthFixture()
	f.repo.On("FindByID", ctx, user.ID).Return(user, nil)
	missing := uuid.New()
	f.repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	info, err := f.service.Me(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "ash@pallet.town", info.Email)

	info, err = f.service.Me(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, info)

	info, err = f.service.Me(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	issued, err := f.jwt.GenerateToken(uuid.New(), "ash@pallet.town")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, issued.Token))
	revoked, err := f.blacklist.IsBlacklisted(ctx, issued.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.service.Logout(ctx, "garbage"), shared.ErrUnauthorized)

	expired := auth.NewJWTService(config.JWTConfig{Secret: testJWTConfig.Secret, Expiration: -time.Minute})
	old, err := expired.GenerateToken(uuid.New(), "ash@pallet.town")
	require.NoError(t, err)
	assert.NoError(t, f.service.Logout(ctx, old.Token))
	assert.Equal(t, 1, f.blacklist.Len())
}
