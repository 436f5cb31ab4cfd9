package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, expiresAt, err := signer.Generate("job-1", "reports/production-report-2025-05-15.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	jobID, relPath, _, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "reports/production-report-2025-05-15.csv", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("job-1", "reports/a.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token + "x")
	assert.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Minute)
	_, _, _, err = other.Parse(token)
	assert.Error(t, err)
}

func TestSignedURLRejectsExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", -time.Minute)
	signer.ttl = -time.Minute
	token, _, err := signer.Generate("job-1", "reports/a.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token)
	assert.Error(t, err)
}
