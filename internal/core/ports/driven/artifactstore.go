package driven

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// ArtifactStore reads trained model artifacts.
type ArtifactStore interface {
	// Load reads and validates a model artifact.
	// Returns domain.ErrArtifactNotFound if the model or a required file is
	// missing and domain.ErrCorruptArtifact if the files disagree.
	Load(ctx context.Context, name string) (*domain.ModelArtifact, error)

	// Stat describes a model without reading its matrix.
	// ModTime changes whenever any artifact file changes.
	Stat(ctx context.Context, name string) (domain.ModelInfo, error)

	// List describes every available model, sorted by name.
	List(ctx context.Context) ([]domain.ModelInfo, error)
}

// ArtifactWatcher reports changes to model artifacts.
type ArtifactWatcher interface {
	// Watch calls onChange with the model name whenever its files change.
	// Blocks until ctx is cancelled.
	Watch(ctx context.Context, onChange func(name string)) error
}
