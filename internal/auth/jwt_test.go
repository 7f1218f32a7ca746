package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-12345")

func TestJWTFlow(t *testing.T) {
	subject := uuid.New().String()

	token, err := GenerateToken(testSecret, subject, RoleParser, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, RoleParser, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "svc", RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, "svc", RoleParser, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	_, err := GenerateToken(testSecret, "", RoleParser, time.Hour)
	assert.Error(t, err)
}
