package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(newFakeBucket(), nil)

	require.NoError(t, s.Set(ctx, "sess-1", []string{"User: q1", "Assistant: a1"}))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: q1", "Assistant: a1"}, got)
}

func TestSessionStore_GetUnknownSession(t *testing.T) {
	s := NewSessionStore(newFakeBucket(), nil)

	got, err := s.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(newFakeBucket(), nil)

	require.NoError(t, s.Set(ctx, "sess-1", []string{"User: q1"}))
	require.NoError(t, s.Set(ctx, "sess-1", []string{"User: q1", "Assistant: a1"}))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: q1", "Assistant: a1"}, got)
}

func TestSessionStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(newFakeBucket(), nil)

	require.NoError(t, s.Set(ctx, "sess-1", []string{"User: q1"}))
	require.NoError(t, s.Delete(ctx, "sess-1"))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Deleting again succeeds.
	require.NoError(t, s.Delete(ctx, "sess-1"))
}
