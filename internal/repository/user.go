package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/motorline/motorline-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewUserRepository creates a new UserRepository with a bounded per-query timeout.
func NewUserRepository(db *sql.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

const userColumns = `id, username, email, full_name, password_hash, active, created_at, updated_at`

// Create inserts a new user. Uniqueness of username and email is
// enforced by the database's unique indexes.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO users (id, username, email, full_name, password_hash, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return storeErr(err)
	}

	return nil
}

// GetByUsername retrieves a user by their username. The username column
// is binary-collated, so both the lookup and the unique index are
// case-sensitive.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr(err)
	}

	return user, nil
}

// duplicateKeyError maps a MySQL duplicate-entry error (code 1062) to
// the colliding column's sentinel, using the violated index name.
func duplicateKeyError(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return nil
	}
	if strings.Contains(mysqlErr.Message, "uq_users_username") {
		return ErrDuplicateUsername
	}
	if strings.Contains(mysqlErr.Message, "uq_users_email") {
		return ErrDuplicateEmail
	}
	return err
}
