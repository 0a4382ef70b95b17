package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMintAndVerifyToken(t *testing.T) {
	t.Run("given minted token should verify back to the same id", func(t *testing.T) {
		id, token, err := MintToken("secret")
		assert.NoError(t, err)
		assert.NoError(t, uuid.Validate(id))

		subject, err := VerifyToken("secret", token)

		assert.NoError(t, err)
		assert.Equal(t, id, subject)
	})
	t.Run("given wrong secret should fail verification", func(t *testing.T) {
		_, token, err := MintToken("secret")
		assert.NoError(t, err)

		_, err = VerifyToken("other-secret", token)

		assert.Error(t, err)
	})
	t.Run("given garbage token should fail verification", func(t *testing.T) {
		_, err := VerifyToken("secret", "not-a-token")

		assert.Error(t, err)
	})
}

func TestSessionContext(t *testing.T) {
	c := AttachToContext(context.Background(), "session-1")

	assert.Equal(t, "session-1", FromContext(c))
	assert.Equal(t, "", FromContext(context.Background()))
}
