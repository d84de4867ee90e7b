package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "campuscoin-ledger")

	token, expiry, err := svc.Generate(studentAddr)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	addr, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, studentAddr, addr)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "campuscoin-ledger")
	other := NewJWTTokenService("different-secret", time.Hour, "campuscoin-ledger")

	token, _, err := svc.Generate(studentAddr)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "campuscoin-ledger")

	token, _, err := svc.Generate(studentAddr)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "campuscoin-ledger")

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}
