package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	"github.com/pardisoft/docflow_app/internal/core/domain"
	portsrepo "github.com/pardisoft/docflow_app/internal/core/ports/repositories"
	"github.com/pardisoft/docflow_app/internal/models"
	"github.com/pardisoft/docflow_app/internal/utils/mapping"
)

const userColumns = `user_id, username, name, role, password_hash,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at,
		refresh_token_hash, refresh_token_expiry_time`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Username, &m.Name, &m.Role, &m.PasswordHash,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
		&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (user_id, username, name, role, password_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, m.UserID, m.Username, m.Name, m.Role, m.PasswordHash,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("username " + m.Username + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save user "+m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a specific user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1 AND deleted_at IS NULL`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user " + userID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID, err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// FindUserByUsername retrieves a specific user by their username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND deleted_at IS NULL`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user " + username + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find user by username", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// FindUsers retrieves a paginated list of users.
func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.UserID, &m.Username, &m.Name, &m.Role, &m.PasswordHash,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
			&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		users = append(users, mapping.ToDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate user rows", err)
	}
	return users, nil
}

// UpdateUser updates an existing user's details.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users SET name = $2, role = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, m.UserID, m.Name, m.Role, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user "+m.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + m.UserID + " not found")
	}
	return nil
}

// UpdateRefreshTokenHash stores the hash and expiry of a user's refresh token.
func (r *PgxUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID, refreshTokenHash, expiryTime)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return nil
}

// ClearRefreshTokenHash removes a user's stored refresh token details.
func (r *PgxUserRepository) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token for user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return nil
}

// MarkUserDeleted marks a user as deleted (soft delete).
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID, deletedAt, deletedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark user "+userID+" deleted", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return nil
}
