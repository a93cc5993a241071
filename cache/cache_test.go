package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNeverHits(t *testing.T) {
	ctx := context.Background()
	var s Store = Noop{}

	require.NoError(t, s.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute))

	var out map[string]string
	found, err := s.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	n, err := s.Incr(ctx, LoginFailKey+"x", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, s.Delete(ctx))
	assert.NoError(t, s.DeletePrefix(ctx, DoctorListKey))
}

func TestRedisPrefixesKeys(t *testing.T) {
	r := NewRedis(nil, "hc:")
	assert.Equal(t, "hc:DOCTORS:cardio", r.key(DoctorListKey+"cardio"))
}
