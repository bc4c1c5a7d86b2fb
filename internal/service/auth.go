// Package service holds the authentication flow: registration, login and
// resolving a session token subject back to a user.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/models"
	"github.com/hongminglow/codemorph-be/internal/models/dto"
	"github.com/hongminglow/codemorph-be/internal/storage"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused outright.
const maxPasswordBytes = 72

// PasswordHasher hashes and checks credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

// TokenIssuer mints session tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// AuthService orchestrates the credential store, hasher and token issuer.
// It holds no per-request state.
type AuthService struct {
	store  storage.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    logging.Logger
}

// NewAuthService wires the service to its store, hasher and token issuer.
func NewAuthService(store storage.UserStore, hasher PasswordHasher, tokens TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a USER account and returns it with a fresh session token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, string, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if err := validateRegistration(email, req.Password, name); err != nil {
		return models.User{}, "", err
	}

	// Fast path only; the unique index below is what actually prevents duplicates.
	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, "", ErrAlreadyExists
	case !errors.Is(err, storage.ErrNotFound):
		return models.User{}, "", fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.User{}, "", err
	}

	created, err := s.store.CreateUser(ctx, models.User{
		Email:        email,
		Name:         name,
		Role:         models.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, "", ErrAlreadyExists
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(created.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID)
	return created, token, nil
}

// Login checks credentials and returns the user with a fresh session token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (models.User, string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return models.User{}, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", ErrUserNotFound
		}
		return models.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return models.User{}, "", err
	}
	if !ok {
		s.log.Warn(ctx, "login rejected", "user_id", user.ID)
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Identify resolves the subject of a verified session token to its user.
func (s *AuthService) Identify(ctx context.Context, userID string) (models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("lookup session user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return fmt.Errorf("%w: email, password and name are required", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}
