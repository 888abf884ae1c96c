package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/avink/microgram/internal/auth"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// Service handles user business logic
type Service struct {
	repo   Repository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewService creates a new user service with its dependencies injected
func NewService(repo Repository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a new user. Username is checked before email so a
// request that collides on both reports the username conflict.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		Avatar:         "",
		Bio:            "",
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token for the
// username. Unknown username and wrong password are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByUsername retrieves a user by their username
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByEmail retrieves a user by their email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves users in creation order with offset/limit pagination
func (s *Service) List(ctx context.Context, offset, limit int) ([]*User, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}

	return s.repo.List(ctx, offset, limit)
}
