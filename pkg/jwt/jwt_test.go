package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("uid123", "scout@example.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid123", claims.UserID)
	assert.Equal(t, "scout@example.com", claims.Email)
}

func TestValidateToken_Rejects(t *testing.T) {
	valid, err := GenerateToken("uid123", "", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("uid123", "", "secret", -time.Hour)
	require.NoError(t, err)
	noSubject, err := GenerateToken("", "", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(valid, "other-secret")
	assert.Error(t, err)
	_, err = ValidateToken(valid, "")
	assert.Error(t, err)
	_, err = ValidateToken(expired, "secret")
	assert.Error(t, err)
	_, err = ValidateToken(noSubject, "secret")
	assert.Error(t, err)
	_, err = ValidateToken("garbage", "secret")
	assert.Error(t, err)
}
