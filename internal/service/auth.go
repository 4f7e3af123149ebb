package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
	"openshelf-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email is already registered")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type authService struct {
	userRepo   repository.UserRepository
	patronRepo repository.PatronRepository
	tokens     security.TokenManager
	jwtCfg     *config.JWTConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	patronRepo repository.PatronRepository,
	tokens security.TokenManager,
	jwtCfg *config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		patronRepo: patronRepo,
		tokens:     tokens,
		jwtCfg:     jwtCfg,
	}
}

func (s *authService) Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, string, string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedDate:  time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}
	logger.Info("user signed up", "user_id", user.ID, "role", user.Role)

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", "", ErrAccountDisabled
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	logger.Info("user logged in", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	if !user.IsActive {
		return "", "", ErrAccountDisabled
	}
	return s.issueTokens(ctx, user)
}

// issueTokens mints the access/refresh pair. Staff identity rides on the
// access token; a linked patron record adds the patron id claim.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (string, string, error) {
	var patronID, staffID *int32
	if user.Role == domain.RoleLibrarian || user.Role == domain.RoleAdmin {
		id := user.ID
		staffID = &id
	}
	if patron, err := s.patronRepo.GetByUserID(ctx, user.ID); err == nil {
		patronID = &patron.ID
	} else if !errors.Is(err, domain.ErrPatronNotFound) {
		return "", "", err
	}

	access, err := s.tokens.GenerateAccessToken(user, patronID, staffID, s.jwtCfg.AccessTTL())
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, s.jwtCfg.RefreshTTL())
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
