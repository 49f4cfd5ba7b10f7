package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, now time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return now })
}

func TestTokenIssueSetsSubjectAndSevenDayExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issued)

	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenValidate(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issued)
	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	assert.True(t, svc.Validate(token, "user@example.com"))
	assert.False(t, svc.Validate(token, "other@example.com"))
	assert.False(t, svc.Validate(token, ""))
	assert.False(t, svc.Validate("not-a-token", "user@example.com"))

	other, err := NewTokenService(TokenConfig{Secret: "another-secret"})
	require.NoError(t, err)
	assert.False(t, other.Validate(token, "user@example.com"))

	svc.WithClock(func() time.Time { return issued.Add(8 * 24 * time.Hour) })
	assert.False(t, svc.Validate(token, "user@example.com"))
}

func TestTokenExtractSubjectFromExpiredToken(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issued)
	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return issued.Add(30 * 24 * time.Hour) })
	subject, ok := svc.ExtractSubject(token)
	assert.True(t, ok)
	assert.Equal(t, "user@example.com", subject)

	_, ok = svc.ExtractSubject(token + "tampered")
	assert.False(t, ok)
	_, ok = svc.ExtractSubject("")
	assert.False(t, ok)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, time.Now())
	claims := jwt.RegisteredClaims{Subject: "user@example.com", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.False(t, svc.Validate(token, "user@example.com"))
	_, ok := svc.ExtractSubject(token)
	assert.False(t, ok)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	assert.Error(t, err)
}
