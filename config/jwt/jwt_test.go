package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Minute)

	token, err := m.GenerateJWT("64b7f0c2a1b2c3d4e5f60718", RoleDoctor)
	require.NoError(t, err)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.ID)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.False(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAdminToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAdminJWT()
	require.NoError(t, err)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Empty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateJWT("64b7f0c2a1b2c3d4e5f60718", RoleUser)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour, time.Hour).GenerateJWT("64b7f0c2a1b2c3d4e5f60718", RoleUser)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlg(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin, IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour, time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRequiresSubject(t *testing.T) {
	_, err := NewManager("secret", time.Hour, time.Hour).GenerateJWT("", RoleUser)
	assert.Error(t, err)
}
