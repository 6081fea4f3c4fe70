// Package users provides a PostgreSQL-backed repository for user accounts
// used in the server's registration and authentication flows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/dbx"
	"github.com/rmaksimov/videotube/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code raised when an insert hits
// a unique constraint.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var refreshToken sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.Avatar, &user.CoverImage, &user.PasswordHash, &refreshToken, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.RefreshToken = refreshToken.String
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.Avatar, user.CoverImage, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, login))
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`
	stored := sql.NullString{String: token, Valid: token != ""}
	return r.exec(ctx, query, id, stored)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	return r.exec(ctx, query, id, hash)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id, fullName, email))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id string, avatar string) error {
	query := `UPDATE users SET avatar = $2 WHERE id = $1`
	return r.exec(ctx, query, id, avatar)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id string, coverImage string) error {
	query := `UPDATE users SET cover_image = $2 WHERE id = $1`
	return r.exec(ctx, query, id, coverImage)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
