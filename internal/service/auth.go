package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/motorline/motorline-go/internal/crypto"
	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/repository"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore is the credential persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users     UserStore
	tokens    *crypto.TokenIssuer
	dummyHash string
}

// NewAuthService creates a new AuthService. A throwaway hash is derived
// up front so failed username lookups can burn the same verification
// cost as a wrong password.
func NewAuthService(users UserStore, tokens *crypto.TokenIssuer) *AuthService {
	dummy, err := crypto.HashPassword("no-such-password")
	if err != nil {
		dummy = ""
	}
	return &AuthService{users: users, tokens: tokens, dummyHash: dummy}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if req.Username == "" {
		return model.UserResponse{}, ErrUsernameRequired
	}
	if req.Email == "" {
		return model.UserResponse{}, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return model.UserResponse{}, ErrEmailInvalid
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.UserResponse{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return userToResponse(user), nil
}

// Login authenticates a user and returns a bearer token pair. Unknown
// usernames, wrong passwords and deactivated accounts all surface the
// same generic error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn the same hashing cost as a real verification so an
			// unknown username is not distinguishable by timing.
			crypto.VerifyPassword(req.Password, s.dummyHash)
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match || !user.Active {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	return s.mintTokens(user.ID)
}

// Refresh exchanges a valid refresh token for a new token pair. The
// subject must still resolve to an existing active user.
func (s *AuthService) Refresh(ctx context.Context, req model.RefreshRequest) (model.TokenResponse, error) {
	if req.RefreshToken == "" {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	userID, err := s.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}
	if !user.Active {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	return s.mintTokens(user.ID)
}

func (s *AuthService) mintTokens(userID string) (model.TokenResponse, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return model.TokenResponse{}, err
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func userToResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
