package auth

import (
	"strings"
	"testing"
	"time"

	"ecommerce-sessions/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.SessionUser {
	return models.SessionUser{
		ID:        42,
		FirstName: "Ana",
		LastName:  "Diaz",
		Email:     "ana@example.com",
		Age:       31,
		Role:      models.RoleUser,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("super-secret", time.Hour, time.Minute)

	tok, err := tokens.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, testUser(), claims.User)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", -time.Second, time.Minute)
	tok, err := tokens.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = tokens.ValidateToken(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokens("right-secret", time.Hour, time.Minute).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewTokens("wrong-secret", time.Hour, time.Minute).ValidateToken(tok)
	require.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("k", time.Hour, time.Minute)
	for _, raw := range []string{"", "not.a.jwt", "garbage"} {
		_, err := tokens.ValidateToken(raw)
		assert.Error(t, err, raw)
	}
}

func TestResetToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour, 10*time.Minute)
	tok, err := tokens.GenerateResetToken("ana@example.com")
	require.NoError(t, err)

	claims, err := tokens.ValidateResetToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), exp.Time, 5*time.Second)
}

func TestResetToken_Tampered(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour, time.Hour)
	tok, err := tokens.GenerateResetToken("ana@example.com")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tokens.ValidateResetToken(tampered)
	require.Error(t, err)
}

func TestResetToken_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour, -time.Second)
	tok, err := tokens.GenerateResetToken("ana@example.com")
	require.NoError(t, err)

	_, err = tokens.ValidateResetToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokens_PurposesDoNotMix(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour, time.Hour)

	session, err := tokens.GenerateToken(testUser())
	require.NoError(t, err)
	_, err = tokens.ValidateResetToken(session)
	assert.Error(t, err, "session token must not reset passwords")

	reset, err := tokens.GenerateResetToken("ana@example.com")
	require.NoError(t, err)
	_, err = tokens.ValidateToken(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
