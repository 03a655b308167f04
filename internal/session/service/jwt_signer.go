package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// minSigningKeyLength is the minimum HS256 key size in bytes. Shorter keys make
// the signature brute-forceable and are rejected at construction time.
const minSigningKeyLength = 32

// signedClaims is the wire shape of session token claims: registered claims
// plus the token type discriminator.
type signedClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ,omitempty"`
}

// jwtSigner implements Signer using HMAC-SHA256 signed JWTs.
type jwtSigner struct {
	key []byte
}

// NewJWTSigner creates a Signer using the given symmetric key. Returns
// ErrSigningKeyUnavailable if the key is missing or too short, so a
// misconfigured process fails at startup rather than at first issuance.
func NewJWTSigner(key string) (Signer, error) {
	if len(key) < minSigningKeyLength {
		return nil, apperrors.Wrap(
			sessionDomain.ErrSigningKeyUnavailable,
			"signing key must be at least 32 bytes",
		)
	}
	return &jwtSigner{key: []byte(key)}, nil
}

// Sign mints a signed token for username with the given type and lifetime.
// Each token carries a unique jti: timestamps have second resolution, and
// without it two issuances inside the same second would mint byte-identical
// tokens, making a reissued pair indistinguishable from the pair it replaces.
func (s *jwtSigner) Sign(
	username string,
	tokenType sessionDomain.TokenType,
	ttl time.Duration,
) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: string(tokenType),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(sessionDomain.ErrSigningKeyUnavailable, err.Error())
	}

	return token, expiresAt, nil
}

// Parse verifies signature and expiry and returns the decoded claims.
// Signature, structure, and temporal checks all collapse to ErrInvalidToken so
// callers cannot distinguish why a token was rejected.
func (s *jwtSigner) Parse(token string) (*sessionDomain.Claims, error) {
	var claims signedClaims

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, sessionDomain.ErrInvalidToken
			}
			return s.key, nil
		},
	)
	if err != nil || !parsed.Valid {
		return nil, sessionDomain.ErrInvalidToken
	}

	tokenType := sessionDomain.TokenType(claims.TokenType)
	if tokenType == "" {
		tokenType = sessionDomain.TokenTypeAccess
	}

	result := &sessionDomain.Claims{
		Subject:   claims.Subject,
		TokenType: tokenType,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	return result, nil
}
