package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMissThenHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	stored := []byte("original")
	require.NoError(t, m.Set(ctx, "k", stored))
	stored[0] = 'X'

	got, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "mutating the caller's slice must not corrupt the cache")

	got[0] = 'Y'
	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again, "mutating a returned slice must not corrupt the cache")
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = m.Set(ctx, key, []byte(key))
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, m.Len())
}
