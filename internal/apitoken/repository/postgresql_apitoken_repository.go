// Package repository provides data persistence implementations for API tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/apitoken/domain"
	"github.com/allisson/sessions/internal/database"

	apperrors "github.com/allisson/sessions/internal/errors"
)

// PostgreSQLAPITokenRepository implements APIToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAPITokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPITokenRepository creates a new PostgreSQL APIToken repository.
func NewPostgreSQLAPITokenRepository(db *sql.DB) *PostgreSQLAPITokenRepository {
	return &PostgreSQLAPITokenRepository{db: db}
}

// Create inserts a new APIToken.
func (r *PostgreSQLAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO api_tokens (id, token, user_id, provider, token_type, state, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Token,
		token.UserID,
		token.Provider,
		token.TokenType,
		token.State,
		token.ExpiresAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api token")
	}
	return nil
}

// GetByToken retrieves an APIToken by its exact token value.
func (r *PostgreSQLAPITokenRepository) GetByToken(ctx context.Context, token string) (*domain.APIToken, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, token, user_id, provider, token_type, state, expires_at, created_at
			  FROM api_tokens WHERE token = $1`

	var apiToken domain.APIToken

	err := querier.QueryRowContext(ctx, query, token).Scan(
		&apiToken.ID,
		&apiToken.Token,
		&apiToken.UserID,
		&apiToken.Provider,
		&apiToken.TokenType,
		&apiToken.State,
		&apiToken.ExpiresAt,
		&apiToken.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPITokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api token")
	}

	return &apiToken, nil
}

// GetActiveByUserAndProvider retrieves the active APIToken for a (user, provider)
// pair, if one exists.
func (r *PostgreSQLAPITokenRepository) GetActiveByUserAndProvider(
	ctx context.Context,
	userID uuid.UUID,
	provider string,
) (*domain.APIToken, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, token, user_id, provider, token_type, state, expires_at, created_at
			  FROM api_tokens WHERE user_id = $1 AND provider = $2 AND state = $3`

	var apiToken domain.APIToken

	err := querier.QueryRowContext(ctx, query, userID, provider, domain.StateActive).Scan(
		&apiToken.ID,
		&apiToken.Token,
		&apiToken.UserID,
		&apiToken.Provider,
		&apiToken.TokenType,
		&apiToken.State,
		&apiToken.ExpiresAt,
		&apiToken.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAPITokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active api token")
	}

	return &apiToken, nil
}

// UpdateState changes the lifecycle state of an APIToken.
func (r *PostgreSQLAPITokenRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	state domain.State,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_tokens SET state = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, state, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api token state")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrAPITokenNotFound
	}

	return nil
}

// DeleteExpired removes tokens whose expiry has passed. Returns the number of
// rows removed.
func (r *PostgreSQLAPITokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM api_tokens WHERE expires_at < NOW()`

	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired api tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}
