package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/repository"
	"github.com/damoang/angple-notes/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Password length bounds for registration; bcrypt ignores input past 72 bytes
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	bcryptCost int
}

// NewAuthService creates a new AuthService. A cost outside bcrypt's range uses bcrypt.DefaultCost.
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		bcryptCost: bcryptCost,
	}
}

// AuthResult is returned by Register, Login and Refresh
type AuthResult struct {
	User         *domain.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and logs it in
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrCredentialsMissing
	}
	if !strings.Contains(email, "@") {
		return nil, common.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, common.ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return nil, common.ErrPasswordTooLong
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Email: email, PasswordHash: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrCredentialsMissing
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Refresh validates a refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	return s.issue(user)
}

// Profile returns the account for userID
func (s *AuthService) Profile(ctx context.Context, userID uint64) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	userIDStr := strconv.FormatUint(user.ID, 10)
	accessToken, err := s.jwtManager.GenerateAccessToken(userIDStr, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &AuthResult{
		User:         user,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}
