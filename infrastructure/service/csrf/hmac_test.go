package csrf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2
	sum, err := Sign("what do ya want for nothing?", "Jefe")
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", sum)
}

func TestSign_EmptySecret(t *testing.T) {
	_, err := Sign("token", "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestVerify(t *testing.T) {
	token := NewToken()
	sum, err := Sign(token, "secret")
	require.NoError(t, err)

	assert.True(t, Verify(token, sum, "secret"))
	assert.False(t, Verify(token, sum, "other"))
	assert.False(t, Verify(NewToken(), sum, "secret"))
	assert.False(t, Verify(token, sum, ""))
}

func TestNewToken_IsUUID(t *testing.T) {
	_, err := uuid.Parse(NewToken())
	assert.NoError(t, err)
	assert.NotEqual(t, NewToken(), NewToken())
}
