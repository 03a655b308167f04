package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/sessions/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("NilReturnsNil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("alice"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
}

func TestUsername(t *testing.T) {
	valid := []string{"alice", "bob.smith", "user_01", "a-b-c"}
	for _, username := range valid {
		assert.NoError(t, Username.Validate(username), username)
	}

	invalid := []string{"ab", "has space", "semi;colon", "tab\tchar", "x"}
	for _, username := range invalid {
		assert.Error(t, Username.Validate(username), username)
	}
}

func TestProvider(t *testing.T) {
	assert.NoError(t, Provider.Validate("github"))
	assert.NoError(t, Provider.Validate("my-integration"))
	assert.Error(t, Provider.Validate("UPPER"))
	assert.Error(t, Provider.Validate("a"))
	assert.Error(t, Provider.Validate("bad provider"))
}
