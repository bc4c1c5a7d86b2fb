// Package sqlite is a file or in-memory credential store for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hongminglow/codemorph-be/internal/models"
	"github.com/hongminglow/codemorph-be/internal/storage"
	"github.com/hongminglow/codemorph-be/internal/storage/migrations"
)

var _ storage.UserStore = (*Store)(nil)

const userColumns = `id, email, password_hash, name, role, image, created_at, updated_at`

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Store keeps users in a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserStore opens the database named by dsn and runs migrations. Accepted
// forms: "sqlite://path/to.db", "sqlite://:memory:", "file:..." or a bare path.
func NewUserStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", DriverDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers anyway, and an in-memory database only lives on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrations.Up(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// DriverDSN strips the sqlite:// scheme understood by the config layer.
func DriverDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	dsn = strings.TrimPrefix(dsn, "sqlite:")
	return dsn
}

// Close releases database resources.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user, err := storage.PrepareNew(user, uuid.NewString)
	if err != nil {
		return models.User{}, err
	}
	now := s.now().UTC()

	query := `
		INSERT INTO users (id, email, password_hash, name, role, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + userColumns
	row := s.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), user.Image,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, err
}

// FindByID fetches a user by its identifier.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, err
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user                 models.User
		role                 string
		image                sql.NullString
		createdAt, updatedAt any
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &image, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	if image.Valid {
		user.Image = &image.String
	}

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, fmt.Errorf("created_at: %w", err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.User{}, fmt.Errorf("updated_at: %w", err)
	}
	return user, nil
}

// parseTime accepts whatever the driver hands back for a TIMESTAMP column.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	default:
		return false
	}
}
