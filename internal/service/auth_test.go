package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/security"
)

func newAuthFixture() (*MockUserRepo, *MockPatronRepo, AuthService, security.TokenManager) {
	userRepo := new(MockUserRepo)
	patronRepo := new(MockPatronRepo)
	tokens := security.NewTokenManager("test-secret")
	jwtCfg := &config.JWTConfig{Secret: "test-secret", AccessTTLMinutes: 60, RefreshTTLDays: 30}
	return userRepo, patronRepo, NewAuthService(userRepo, patronRepo, tokens, jwtCfg), tokens
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("new account gets a token pair", func(t *testing.T) {
		userRepo, patronRepo, svc, tokens := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.User).ID = 1
			}).Return(nil)
		patronRepo.On("GetByUserID", ctx, int32(1)).Return(nil, domain.ErrPatronNotFound)

		user, access, refresh, err := svc.Signup(ctx, "ada", "ada@example.com", "correct horse", domain.RolePatron)
		assert.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
		assert.Equal(t, domain.RolePatron, claims.Role)
		assert.Nil(t, claims.StaffID)

		claims, err = tokens.ValidateToken(refresh)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	})

	t.Run("duplicate email is refused", func(t *testing.T) {
		userRepo, _, svc, _ := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ada@example.com").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(ctx, "ada", "ada@example.com", "pw12345678", domain.RolePatron)
		assert.ErrorIs(t, err, ErrEmailInUse)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)

	t.Run("librarian login carries staff identity", func(t *testing.T) {
		userRepo, patronRepo, svc, tokens := newAuthFixture()
		user := &domain.User{
			ID:           2,
			Email:        "lib@example.com",
			PasswordHash: string(hash),
			Role:         domain.RoleLibrarian,
			IsActive:     true,
		}
		userRepo.On("GetByEmail", ctx, "lib@example.com").Return(user, nil)
		patronRepo.On("GetByUserID", ctx, int32(2)).Return(nil, domain.ErrPatronNotFound)

		_, access, _, err := svc.Login(ctx, "lib@example.com", "correct horse")
		assert.NoError(t, err)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		if assert.NotNil(t, claims.StaffID) {
			assert.Equal(t, int32(2), *claims.StaffID)
		}
		assert.True(t, claims.HasPermission(security.PermProcessCheckout))
	})

	t.Run("linked patron record adds the patron claim", func(t *testing.T) {
		userRepo, patronRepo, svc, tokens := newAuthFixture()
		user := &domain.User{
			ID:           3,
			Email:        "ada@example.com",
			PasswordHash: string(hash),
			Role:         domain.RolePatron,
			IsActive:     true,
		}
		userRepo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)
		patronRepo.On("GetByUserID", ctx, int32(3)).Return(&domain.Patron{ID: 7}, nil)

		_, access, _, err := svc.Login(ctx, "ada@example.com", "correct horse")
		assert.NoError(t, err)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		if assert.NotNil(t, claims.PatronID) {
			assert.Equal(t, int32(7), *claims.PatronID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo, _, svc, _ := newAuthFixture()
		user := &domain.User{ID: 3, PasswordHash: string(hash), Role: domain.RolePatron, IsActive: true}
		userRepo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)

		_, _, _, err := svc.Login(ctx, "ada@example.com", "wrong horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reads the same as a wrong password", func(t *testing.T) {
		userRepo, _, svc, _ := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)

		_, _, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		userRepo, _, svc, _ := newAuthFixture()
		user := &domain.User{ID: 3, PasswordHash: string(hash), Role: domain.RolePatron, IsActive: false}
		userRepo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)

		_, _, _, err := svc.Login(ctx, "ada@example.com", "correct horse")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token mints a new pair", func(t *testing.T) {
		userRepo, patronRepo, svc, tokens := newAuthFixture()
		user := &domain.User{ID: 3, Email: "ada@example.com", Role: domain.RolePatron, IsActive: true}
		refresh, err := tokens.GenerateRefreshToken(3, "ada@example.com", 24*time.Hour)
		assert.NoError(t, err)
		userRepo.On("GetByID", ctx, int32(3)).Return(user, nil)
		patronRepo.On("GetByUserID", ctx, int32(3)).Return(nil, domain.ErrPatronNotFound)

		access, newRefresh, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("an access token cannot refresh", func(t *testing.T) {
		_, _, svc, tokens := newAuthFixture()
		user := &domain.User{ID: 3, Email: "ada@example.com", Role: domain.RolePatron}
		access, err := tokens.GenerateAccessToken(user, nil, nil, time.Hour)
		assert.NoError(t, err)

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})
}
