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

// MySQLAPITokenRepository implements APIToken persistence for MySQL.
// UUIDs are stored as BINARY(16); transaction support via database.GetTx().
type MySQLAPITokenRepository struct {
	db *sql.DB
}

// NewMySQLAPITokenRepository creates a new MySQL APIToken repository.
func NewMySQLAPITokenRepository(db *sql.DB) *MySQLAPITokenRepository {
	return &MySQLAPITokenRepository{db: db}
}

// Create inserts a new APIToken.
func (r *MySQLAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO api_tokens (id, token, user_id, provider, token_type, state, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`

	idBytes, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		token.Token,
		userIDBytes,
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
func (r *MySQLAPITokenRepository) GetByToken(ctx context.Context, token string) (*domain.APIToken, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, token, user_id, provider, token_type, state, expires_at, created_at
			  FROM api_tokens WHERE token = ?`

	return r.scanToken(querier.QueryRowContext(ctx, query, token))
}

// GetActiveByUserAndProvider retrieves the active APIToken for a (user, provider)
// pair, if one exists.
func (r *MySQLAPITokenRepository) GetActiveByUserAndProvider(
	ctx context.Context,
	userID uuid.UUID,
	provider string,
) (*domain.APIToken, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, token, user_id, provider, token_type, state, expires_at, created_at
			  FROM api_tokens WHERE user_id = ? AND provider = ? AND state = ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	return r.scanToken(querier.QueryRowContext(ctx, query, userIDBytes, provider, domain.StateActive))
}

// UpdateState changes the lifecycle state of an APIToken.
func (r *MySQLAPITokenRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	state domain.State,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE api_tokens SET state = ? WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, state, idBytes)
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
func (r *MySQLAPITokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
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

// scanToken scans one row, converting BINARY(16) columns back to UUIDs.
func (r *MySQLAPITokenRepository) scanToken(row *sql.Row) (*domain.APIToken, error) {
	var apiToken domain.APIToken
	var idBytes, userIDBytes []byte

	err := row.Scan(
		&idBytes,
		&apiToken.Token,
		&userIDBytes,
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

	if err := apiToken.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := apiToken.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &apiToken, nil
}
