package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, expiresAt, err := m.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)

	token, _, err := m.Generate("user-123")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("different", time.Hour)

	token, _, err := m.Generate("user-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	_, err = ExtractTokenFromHeader(req)
	require.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	_, err = ExtractTokenFromHeader(req)
	require.Error(t, err)

	req.Header.Set("Authorization", "Bearer my-token")
	token, err := ExtractTokenFromHeader(req)
	require.NoError(t, err)
	require.Equal(t, "my-token", token)

	req.Header.Set("Authorization", "bearer lowercase-scheme")
	token, err = ExtractTokenFromHeader(req)
	require.NoError(t, err)
	require.Equal(t, "lowercase-scheme", token)
}
