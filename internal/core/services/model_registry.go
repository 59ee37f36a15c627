package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure ModelRegistry implements the interface.
var _ driving.ModelService = (*ModelRegistry)(nil)

// ModelRegistry caches loaded model artifacts, one per model name.
// An entry is reused while the artifact's modification time is unchanged.
// Concurrent loads of the same version share one read.
type ModelRegistry struct {
	store        driven.ArtifactStore
	defaultModel string

	mu    sync.RWMutex
	cache map[string]*domain.ModelArtifact
	group singleflight.Group
}

// NewModelRegistry creates a registry over an artifact store.
// An empty defaultModel falls back to domain.DefaultModelName.
func NewModelRegistry(store driven.ArtifactStore, defaultModel string) *ModelRegistry {
	if defaultModel == "" {
		defaultModel = domain.DefaultModelName
	}
	return &ModelRegistry{
		store:        store,
		defaultModel: defaultModel,
		cache:        make(map[string]*domain.ModelArtifact),
	}
}

// DefaultModel returns the model used when a request names none.
func (r *ModelRegistry) DefaultModel() string {
	return r.defaultModel
}

// Load returns the current artifact for a model, reading it from the store
// when it is not cached or has changed on disk.
func (r *ModelRegistry) Load(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	if name == "" {
		name = r.defaultModel
	}

	info, err := r.store.Stat(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && cached.Info().ModTime.Equal(info.ModTime) {
		return cached, nil
	}

	key := name + "@" + info.ModTime.UTC().Format(time.RFC3339Nano)
	v, err, shared := r.group.Do(key, func() (any, error) {
		logger.Debug("Loading model %q (modified %s)", name, info.ModTime.Format(time.RFC3339))
		artifact, err := r.store.Load(ctx, name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if cur, ok := r.cache[name]; !ok || !cur.Info().ModTime.After(artifact.Info().ModTime) {
			r.cache[name] = artifact
		}
		r.mu.Unlock()

		logger.Debug("Loaded model %q with %d rows", name, artifact.Len())
		return artifact, nil
	})
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	if shared {
		logger.Debug("Shared in-flight load of model %q", name)
	}
	return v.(*domain.ModelArtifact), nil
}

// Invalidate drops any cached copy of a model.
func (r *ModelRegistry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[name]; ok {
		logger.Debug("Invalidated cached model %q", name)
	}
	delete(r.cache, name)
}

// Cached reports whether a model is currently held in memory.
func (r *ModelRegistry) Cached(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cache[name]
	return ok
}

// List describes every available model.
func (r *ModelRegistry) List(ctx context.Context) ([]domain.ModelInfo, error) {
	infos, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return infos, nil
}

// Info describes one model, loading it to report its row count.
func (r *ModelRegistry) Info(ctx context.Context, name string) (domain.ModelInfo, error) {
	artifact, err := r.Load(ctx, name)
	if err != nil {
		return domain.ModelInfo{}, err
	}
	return artifact.Info(), nil
}
