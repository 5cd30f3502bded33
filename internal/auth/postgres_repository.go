package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL auth repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, name, email, role, allowed_devices, password_hash, created_at, updated_at`

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(ctx, query, email)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *PostgresRepository) scanUser(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.AllowedDevices,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, role, allowed_devices, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Role, user.AllowedDevices,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, userID, passwordHash, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) SaveResetToken(ctx context.Context, token *ResetToken) error {
	query := `
		INSERT INTO reset_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	return err
}

func (r *PostgresRepository) GetResetToken(ctx context.Context, token string) (*ResetToken, error) {
	query := `SELECT token, user_id, expires_at, used_at FROM reset_tokens WHERE token = $1`

	var t ResetToken
	err := r.pool.QueryRow(ctx, query, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, token string) error {
	query := `UPDATE reset_tokens SET used_at = $2 WHERE token = $1 AND used_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, token, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidResetToken
	}
	return nil
}
