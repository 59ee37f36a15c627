package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/core/domain"
)

func TestModelRegistry_CachesUntilModified(t *testing.T) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	r := NewModelRegistry(store, "baseline")
	ctx := context.Background()

	first, err := r.Load(ctx, "")
	require.NoError(t, err)
	second, err := r.Load(ctx, "baseline")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.loadCount("baseline"))
	assert.True(t, r.Cached("baseline"))

	store.put(threeNodeArtifactInfo(t, domain.ModelInfo{Name: "baseline", Version: "2", ModTime: time.Unix(1800000000, 0)}))

	third, err := r.Load(ctx, "baseline")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, "2", third.Info().Version)
	assert.Equal(t, 2, store.loadCount("baseline"))
}

func TestModelRegistry_Invalidate(t *testing.T) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	r := NewModelRegistry(store, "baseline")
	ctx := context.Background()

	_, err := r.Load(ctx, "baseline")
	require.NoError(t, err)

	r.Invalidate("baseline")
	assert.False(t, r.Cached("baseline"))
	r.Invalidate("never-loaded")

	_, err = r.Load(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loadCount("baseline"))
}

func TestModelRegistry_ConcurrentLoadsShareRead(t *testing.T) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	store.loadDelay = 100 * time.Millisecond
	r := NewModelRegistry(store, "baseline")

	var wg sync.WaitGroup
	results := make([]*domain.ModelArtifact, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := r.Load(context.Background(), "baseline")
			assert.NoError(t, err)
			results[i] = a
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.loadCount("baseline"))
	for _, a := range results {
		assert.Same(t, results[0], a)
	}
}

func TestModelRegistry_Errors(t *testing.T) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	r := NewModelRegistry(store, "baseline")
	ctx := context.Background()

	_, err := r.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	store.loadErr = errors.New("disk on fire")
	_, err = r.Load(ctx, "baseline")
	assert.ErrorContains(t, err, "disk on fire")
	assert.False(t, r.Cached("baseline"))
}

func TestModelRegistry_ListAndInfo(t *testing.T) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	r := NewModelRegistry(store, "")
	ctx := context.Background()

	assert.Equal(t, domain.DefaultModelName, r.DefaultModel())

	infos, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "baseline", infos[0].Name)

	info, err := r.Info(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Rows)
}
