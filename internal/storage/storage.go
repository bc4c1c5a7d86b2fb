package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/codemorph-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidUser is returned when a user violates a model invariant before it reaches the database.
var ErrInvalidUser = errors.New("invalid user record")

// UserStore captures persistence operations needed by the auth flow.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Close()
}

// PrepareNew checks the invariants every store enforces on insert and fills the id.
func PrepareNew(user models.User, newID func() string) (models.User, error) {
	if user.Email == "" {
		return models.User{}, fmt.Errorf("%w: email is empty", ErrInvalidUser)
	}
	if user.PasswordHash == "" {
		return models.User{}, fmt.Errorf("%w: password hash is empty", ErrInvalidUser)
	}
	if !user.Role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, user.Role)
	}
	if user.ID == "" {
		user.ID = newID()
	}
	return user, nil
}
