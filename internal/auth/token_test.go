package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -1*time.Minute)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenService("test-secret", 30*time.Minute)
	validator := NewTokenService("other-secret", 30*time.Minute)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestValidateMalformedToken(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestValidateTamperedToken(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Validate(tampered)
	assert.Error(t, err)
}
