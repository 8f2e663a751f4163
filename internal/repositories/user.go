package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/models"
	"github.com/tkoskim/breachpoint/internal/sqlite"
)

// ErrDuplicateUsername signals that the username is already taken.
var ErrDuplicateUsername = errors.NewSentinel("username already exists")

// UserRepository stores the bare credential records players are keyed on.
type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

// Create inserts a new user. Returns ErrDuplicateUsername when the username is taken; the
// UNIQUE constraint makes this race-free even for concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, username, password string) (*models.User, error) {
	stmt := `INSERT INTO users (username, password) VALUES (?, ?)`
	result, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, username, password)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateUsername
		}
		return nil, errors.Wrap(err, "insert user", slog.String("username", username))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "last insert id")
	}
	return &models.User{ID: id, Username: username, Password: password}, nil
}

// GetByUsername returns nil without error when no user has the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, username, password FROM users WHERE username = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query user", slog.String("username", username))
	}
	return &user, nil
}
