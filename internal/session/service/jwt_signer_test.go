package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func TestNewJWTSigner(t *testing.T) {
	t.Run("Success_ValidKey", func(t *testing.T) {
		signer, err := NewJWTSigner(testSigningKey)

		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("Error_EmptyKey", func(t *testing.T) {
		_, err := NewJWTSigner("")

		assert.ErrorIs(t, err, sessionDomain.ErrSigningKeyUnavailable)
	})

	t.Run("Error_ShortKey", func(t *testing.T) {
		_, err := NewJWTSigner("too-short")

		assert.ErrorIs(t, err, sessionDomain.ErrSigningKeyUnavailable)
	})
}

func TestJWTSigner_SignAndParse(t *testing.T) {
	signer, err := NewJWTSigner(testSigningKey)
	require.NoError(t, err)

	t.Run("Success_AccessToken", func(t *testing.T) {
		token, expiresAt, err := signer.Sign("alice", sessionDomain.TokenTypeAccess, 15*time.Minute)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), expiresAt, 5*time.Second)

		claims, err := signer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, sessionDomain.TokenTypeAccess, claims.TokenType)
		assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
	})

	t.Run("Success_RefreshTokenCarriesTypeClaim", func(t *testing.T) {
		token, _, err := signer.Sign("alice", sessionDomain.TokenTypeRefresh, 24*time.Hour)
		require.NoError(t, err)

		claims, err := signer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, sessionDomain.TokenTypeRefresh, claims.TokenType)
	})

	t.Run("Success_RepeatedIssuanceMintsDistinctTokens", func(t *testing.T) {
		// Timestamps have second resolution; back-to-back calls land in the
		// same second, so only the jti keeps the tokens apart.
		first, _, err := signer.Sign("alice", sessionDomain.TokenTypeAccess, 15*time.Minute)
		require.NoError(t, err)
		second, _, err := signer.Sign("alice", sessionDomain.TokenTypeAccess, 15*time.Minute)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestJWTSigner_ParseFailures(t *testing.T) {
	signer, err := NewJWTSigner(testSigningKey)
	require.NoError(t, err)

	t.Run("Error_MalformedToken", func(t *testing.T) {
		_, err := signer.Parse("not-a-jwt")

		assert.ErrorIs(t, err, sessionDomain.ErrInvalidToken)
	})

	t.Run("Error_WrongSignature", func(t *testing.T) {
		other, err := NewJWTSigner("ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)

		token, _, err := other.Sign("alice", sessionDomain.TokenTypeAccess, time.Minute)
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, sessionDomain.ErrInvalidToken)
	})

	t.Run("Error_ExpiredToken", func(t *testing.T) {
		token, _, err := signer.Sign("alice", sessionDomain.TokenTypeAccess, -time.Second)
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, sessionDomain.ErrInvalidToken)
	})

	t.Run("Success_TokenJustInsideExpiry", func(t *testing.T) {
		token, _, err := signer.Sign("alice", sessionDomain.TokenTypeAccess, 2*time.Second)
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.NoError(t, err)
	})

	t.Run("Error_WrongAlgorithm", func(t *testing.T) {
		// Unsigned token must be rejected structurally
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, sessionDomain.ErrInvalidToken)
	})
}

func TestSecretService(t *testing.T) {
	secretService := NewSecretService()

	hashed, err := secretService.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.True(t, secretService.ComparePassword("correct horse battery staple", hashed))
	assert.False(t, secretService.ComparePassword("wrong password", hashed))
	assert.False(t, secretService.ComparePassword("correct horse battery staple", "not-a-hash"))
}
