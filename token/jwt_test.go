package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/config"
)

func newManager() *Manager {
	return NewManager(config.JWTConfig{Secret: "test-secret-test-secret-test-secret", TTL: 30 * 24 * time.Hour, Issuer: "hospitalcare"})
}

func TestIssueAndParse(t *testing.T) {
	m := newManager()
	id := primitive.NewObjectID()

	raw, expires, err := m.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expires, time.Minute)

	got, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseExpired(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	raw, _, err := m.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := NewManager(config.JWTConfig{Secret: "another-secret-another-secret-xx", TTL: time.Hour, Issuer: "hospitalcare"})
	raw, _, err := other.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = newManager().Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newManager().Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
