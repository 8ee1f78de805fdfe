package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("token-a")

	assert.Len(t, fp, 64)
	assert.Equal(t, fp, FingerprintToken("token-a"))
	assert.NotEqual(t, fp, FingerprintToken("token-b"))
}

func TestMatchesFingerprint(t *testing.T) {
	stored := FingerprintToken("token-a")

	assert.True(t, MatchesFingerprint("token-a", &stored))
	assert.False(t, MatchesFingerprint("token-b", &stored))
	assert.False(t, MatchesFingerprint("token-a", nil))
	assert.False(t, MatchesFingerprint("", &stored))
}
