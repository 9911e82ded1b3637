package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezalahmad/account-service/app/models"
)

/*
UsersStore test cases:

1. TestUsersStore_Create_Success
   - Insert returns id and created_at, both set on the user

2. TestUsersStore_Create_DuplicateUsername
   - SQLSTATE 23505 on the username constraint -> ErrDuplicateUsername

3. TestUsersStore_Create_DuplicateEmail
   - SQLSTATE 23505 on the email constraint -> ErrDuplicateEmail

4. TestUsersStore_Create_DatabaseError
   - Any other error is returned as-is

5. TestUsersStore_GetByUsername_Success
   - All fields scanned correctly

6. TestUsersStore_GetByUsername_NotFound
   - sql.ErrNoRows passes through

7. TestUsersStore_Activate_Flips
   - Transaction commits, one row affected -> true

8. TestUsersStore_Activate_AlreadyActive
   - Zero rows affected -> false, still commits

9. TestUsersStore_Activate_ExecError
   - Exec fails -> rollback, error returned
*/

// setupMockDB creates a mock database and UsersStore for testing
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UsersStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")

	store := &UsersStore{db: db}

	return db, mock, store
}

func TestUsersStore_Create_Success(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	user := &models.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hashedpassword",
		Role:         models.RoleUser,
		IsActive:     false,
	}

	expectedID := int64(1)
	expectedCreatedAt := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, role, is_active\)
	VALUES \(\$1, \$2, \$3, \$4, \$5\)
	RETURNING id, created_at`).
		WithArgs(user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(expectedID, expectedCreatedAt))

	err := store.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, expectedID, user.ID)
	assert.Equal(t, expectedCreatedAt, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Create_DuplicateUsername(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := store.Create(context.Background(), &models.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: models.RoleUser,
	})

	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Create_DuplicateEmail(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := store.Create(context.Background(), &models.User{
		Username: "bob", Email: "a@x.com", PasswordHash: "x", Role: models.RoleUser,
	})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Create_DatabaseError(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(dbErr)

	err := store.Create(context.Background(), &models.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: models.RoleUser,
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_GetByUsername_Success(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	createdAt := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at"}).
		AddRow(int64(1), "alice", "a@x.com", "$2a$10$hashedpassword", "user", false, createdAt)

	mock.ExpectQuery(`SELECT id, username, email, password_hash,
	role, is_active, created_at FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := store.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_GetByUsername_NotFound(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	user, err := store.GetByUsername(context.Background(), "nobody")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Activate_Flips(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_active = TRUE WHERE username = \$1 AND NOT is_active`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	flipped, err := store.Activate(context.Background(), "alice")

	require.NoError(t, err)
	assert.True(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Activate_AlreadyActive(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_active = TRUE`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	flipped, err := store.Activate(context.Background(), "alice")

	require.NoError(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore_Activate_ExecError(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_active = TRUE`).
		WithArgs("alice").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	flipped, err := store.Activate(context.Background(), "alice")

	require.Error(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}
