package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsCheck(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "105619"}
	assert.True(t, creds.Check("admin", "105619"))
	assert.False(t, creds.Check("admin", "wrong"))
	assert.False(t, creds.Check("Admin", "105619"), "username comparison is exact")
	assert.False(t, creds.Check("", ""))
}

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("admin", RoleAdmin, "attensync", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "test-key", "attensync")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseRejectsWrongKeyAndIssuer(t *testing.T) {
	pair, err := Issue("admin", RoleAdmin, "attensync", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-key", "attensync")
	assert.Error(t, err)

	_, err = Parse(pair.AccessToken, "test-key", "someone-else")
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	pair, err := Issue("admin", RoleAdmin, "attensync", "test-key", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "test-key", "attensync")
	assert.Error(t, err)
}
