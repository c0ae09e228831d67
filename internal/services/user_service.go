package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/repositories"
)

var (
	// ErrInvalidUser flags a rejected registration payload.
	ErrInvalidUser = errors.New("user: invalid input")
	// ErrBadCredentials is returned for unknown users and wrong passwords
	// alike.
	ErrBadCredentials = errors.New("user: bad credentials")
)

const minPasswordLength = 8

// RegisterInput creates an account. Staff accounts are never created through
// registration.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// UserService handles registration and token issuance.
type UserService struct {
	users  repositories.UserRepository
	tokens *auth.TokenManager
}

type UserServiceDeps struct {
	Users  repositories.UserRepository
	Tokens *auth.TokenManager
}

func NewUserService(deps UserServiceDeps) *UserService {
	return &UserService{users: deps.Users, tokens: deps.Tokens}
}

// Register creates the account and returns a fresh token pair.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, auth.TokenPair, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, auth.TokenPair{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if len(in.Password) < minPasswordLength {
		return nil, auth.TokenPair{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("user: hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, auth.TokenPair{}, err
	}
	pair, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, auth.TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, auth.TokenPair{}, ErrBadCredentials
		}
		return nil, auth.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, auth.TokenPair{}, ErrBadCredentials
	}
	pair, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, re-reading the
// account so revoked users and stale staff flags fall out.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	id, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrBadCredentials
	}
	user, err := s.users.GetUserByID(ctx, id.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return auth.TokenPair{}, ErrBadCredentials
		}
		return auth.TokenPair{}, err
	}
	return s.tokens.Issue(identityOf(user))
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func identityOf(u *domain.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Username: u.Username, Staff: u.IsStaff}
}
