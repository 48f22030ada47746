package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	adminID := uuid.New()
	logID := uuid.New()

	_, ok, err := store.GetActiveSession(ctx, adminID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetActiveSession(ctx, adminID, logID))

	got, ok, err := store.GetActiveSession(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, logID, got)

	require.NoError(t, store.ClearActiveSession(ctx, adminID))

	_, ok, err = store.GetActiveSession(ctx, adminID)
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing again is fine
	require.NoError(t, store.ClearActiveSession(ctx, adminID))
}

func TestMemorySessionStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			adminID := uuid.New()
			_ = store.SetActiveSession(ctx, adminID, uuid.New())
			_, _, _ = store.GetActiveSession(ctx, adminID)
			_ = store.ClearActiveSession(ctx, adminID)
		}()
	}
	wg.Wait()
}
