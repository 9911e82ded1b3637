package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ezalahmad/account-service/app/models"
)

// An insert that hits a unique constraint maps to one of these by the
// constraint it violated. Uniqueness is enforced by the database, not by a
// pre-check, so two concurrent signups race safely: exactly one insert wins.
var (
	ErrDuplicateUsername = errors.New("store: username already registered")
	ErrDuplicateEmail    = errors.New("store: email already registered")
)

// Schema:
//
//	CREATE TABLE users (
//	    id            BIGSERIAL PRIMARY KEY,
//	    username      TEXT NOT NULL UNIQUE,
//	    email         TEXT NOT NULL UNIQUE,
//	    password_hash TEXT NOT NULL,
//	    role          TEXT NOT NULL DEFAULT 'user',
//	    is_active     BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Storage struct {
	Users interface {
		Create(ctx context.Context, user *models.User) error
		GetByUsername(ctx context.Context, username string) (*models.User, error)
		Activate(ctx context.Context, username string) (bool, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Users: &UsersStore{db: db},
	}
}
