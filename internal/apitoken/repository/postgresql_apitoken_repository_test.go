package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sessions/internal/apitoken/domain"
)

func apiTokenColumns() []string {
	return []string{"id", "token", "user_id", "provider", "token_type", "state", "expires_at", "created_at"}
}

func TestPostgreSQLAPITokenRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPITokenRepository(db)
	token := &domain.APIToken{
		ID:        uuid.Must(uuid.NewV7()),
		Token:     "opaque-credential",
		UserID:    uuid.Must(uuid.NewV7()),
		Provider:  "github",
		TokenType: domain.TokenTypePermanent,
		State:     domain.StateActive,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	mock.ExpectExec("INSERT INTO api_tokens").
		WithArgs(
			token.ID, token.Token, token.UserID, token.Provider,
			token.TokenType, token.State, token.ExpiresAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, token)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAPITokenRepository_GetByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPITokenRepository(db)
		id := uuid.Must(uuid.NewV7())
		userID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows(apiTokenColumns()).
			AddRow(id, "opaque-credential", userID, "github",
				domain.TokenTypePermanent, domain.StateActive, now.Add(time.Hour), now)
		mock.ExpectQuery("SELECT id, token, user_id").
			WithArgs("opaque-credential").
			WillReturnRows(rows)

		apiToken, err := repo.GetByToken(ctx, "opaque-credential")

		require.NoError(t, err)
		assert.Equal(t, id, apiToken.ID)
		assert.Equal(t, userID, apiToken.UserID)
		assert.Equal(t, domain.StateActive, apiToken.State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPITokenRepository(db)

		mock.ExpectQuery("SELECT id, token, user_id").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows(apiTokenColumns()))

		_, err = repo.GetByToken(ctx, "unknown")

		assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)
	})
}

func TestPostgreSQLAPITokenRepository_UpdateState(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPITokenRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE api_tokens SET state").
			WithArgs(domain.StateRevoked, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateState(ctx, id, domain.StateRevoked)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NoRows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPITokenRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE api_tokens SET state").
			WithArgs(domain.StateRevoked, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateState(ctx, id, domain.StateRevoked)

		assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)
	})
}

func TestPostgreSQLAPITokenRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPITokenRepository(db)

	mock.ExpectExec("DELETE FROM api_tokens").
		WillReturnResult(sqlmock.NewResult(0, 5))

	count, err := repo.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
