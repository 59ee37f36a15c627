package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ArtifactWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of writes a training run makes when it
// replaces a model's files.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports model directories whose artifact files change.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// NewWatcher creates a watcher over the models directory.
func NewWatcher(dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce}
}

// Watch calls onChange once per changed model after events settle.
// Model directories created while watching are picked up. Blocks until
// ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, onChange func(name string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read models dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !isHidden(e.Name()) {
			w.addDir(fw, filepath.Join(w.dir, e.Name()))
		}
	}
	logger.Debug("Watching models in %s", w.dir)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name, changed := w.modelForEvent(event)
			if !changed {
				continue
			}
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(w.dir) {
				w.addDir(fw, event.Name)
			}
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Model watcher error: %v", err)

		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			clear(pending)
			for _, name := range names {
				logger.Debug("Model %q changed on disk", name)
				onChange(name)
			}
		}
	}
}

func (w *Watcher) addDir(fw *fsnotify.Watcher, path string) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return
	}
	if err := fw.Add(path); err != nil {
		logger.Warn("Failed to watch %s: %v", path, err)
	}
}

// modelForEvent maps a filesystem event to the model it affects.
// Events on a model directory itself or on its artifact files count;
// chmod-only events, hidden entries and unrelated files do not.
func (w *Watcher) modelForEvent(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if isHidden(parts[0]) {
		return "", false
	}
	if len(parts) == 1 {
		return parts[0], true
	}
	if len(parts) == 2 && isArtifactFile(parts[1]) {
		return parts[0], true
	}
	return "", false
}

func isArtifactFile(name string) bool {
	switch name {
	case IndexFile, RelevanceFile, EmbeddingsFile, NodesFile, MetadataFile:
		return true
	default:
		return false
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
