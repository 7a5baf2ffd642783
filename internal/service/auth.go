package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookshelf/bookshelf-go/internal/crypto"
	"github.com/bookshelf/bookshelf-go/internal/model"
	"github.com/bookshelf/bookshelf-go/internal/repository"
)

var (
	ErrMissingFields = errors.New("please fill all required fields")
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrInvalidCredentials is returned for both unknown-username and
	// wrong-password so responses cannot be used to enumerate usernames.
	// The service logs which case actually occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService handles registration and login business logic.
type AuthService struct {
	repo       *repository.UserRepository
	jwtSecret  string
	jwtExpiry  time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.UserRepository, secret string, expiry time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtSecret:  secret,
		jwtExpiry:  expiry,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account with a hashed password.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return ErrMissingFields
	}

	// Pre-check for a friendlier error; the unique index still catches
	// races, surfaced as the same ErrUsernameTaken below.
	_, err := s.repo.GetByUsername(ctx, req.Username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := crypto.HashPasswordCost(req.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoggedIn: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return ErrUsernameTaken
		}
		return err
	}

	return nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("login failed: unknown username", "username", req.Username)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !match {
		slog.Info("login failed: wrong password", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, user.FullName, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return "", err
	}

	// A failure here must not fail an otherwise valid login.
	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		slog.Warn("failed to update last_logged_in", "user_id", user.ID, "error", err)
	}

	return token, nil
}
