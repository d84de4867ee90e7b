package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()

	sig := svc.Sign("observer-key", `{"student":"0xabc"}`)
	assert.Len(t, sig, 64) // hex-encoded SHA-256

	assert.True(t, svc.Verify("observer-key", `{"student":"0xabc"}`, sig))
	assert.False(t, svc.Verify("other-key", `{"student":"0xabc"}`, sig))
	assert.False(t, svc.Verify("observer-key", `{"student":"0xdef"}`, sig))
}

func TestHMACSignatureService_Deterministic(t *testing.T) {
	svc := NewHMACSignatureService()

	assert.Equal(t, svc.Sign("k", "payload"), svc.Sign("k", "payload"))
}
