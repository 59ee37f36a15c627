package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Artifact file names inside a model directory.
const (
	IndexFile      = "index.npy"
	RelevanceFile  = "relevance.npy"
	EmbeddingsFile = "embeddings.npy"
	NodesFile      = "nodes.csv"
	MetadataFile   = "metadata.yaml"
)

// Store reads model artifacts from <dir>/<model>/.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at the models directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the models directory.
func (s *Store) Dir() string {
	return s.dir
}

// layout lists the files that make up one model on disk.
type layout struct {
	index    string
	matrix   string
	gram     bool
	nodes    string
	metadata string
}

// Load reads and validates all artifact files of a model.
func (s *Store) Load(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, l, err := s.stat(name)
	if err != nil {
		return nil, err
	}

	ids, err := readIndex(l.index)
	if err != nil {
		return nil, corrupt(name, IndexFile, err)
	}

	var relevance *domain.Matrix
	if l.gram {
		logger.Debug("Model %q has no %s, deriving relevance from %s", name, RelevanceFile, EmbeddingsFile)
		relevance, err = readGram(l.matrix)
		if err != nil {
			return nil, corrupt(name, EmbeddingsFile, err)
		}
	} else {
		relevance, err = readMatrix(l.matrix)
		if err != nil {
			return nil, corrupt(name, RelevanceFile, err)
		}
	}

	table, err := readNodeTable(l.nodes)
	if err != nil {
		return nil, corrupt(name, NodesFile, err)
	}

	artifact, err := domain.NewModelArtifact(info, ids, relevance, table)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	return artifact, nil
}

// Stat describes a model from its file metadata and metadata.yaml.
func (s *Store) Stat(ctx context.Context, name string) (domain.ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelInfo{}, err
	}
	info, l, err := s.stat(name)
	if err != nil {
		return domain.ModelInfo{}, err
	}
	if h, err := readNpyFileHeader(l.index); err == nil && len(h.shape) == 1 {
		info.Rows = h.shape[0]
	}
	return info, nil
}

// List describes every model directory, sorted by name. Directories
// without a complete artifact are skipped. A missing models directory
// holds no models.
func (s *Store) List(ctx context.Context) ([]domain.ModelInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ModelInfo{}, nil
		}
		return nil, fmt.Errorf("read models dir: %w", err)
	}

	infos := make([]domain.ModelInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := s.Stat(ctx, e.Name())
		if err != nil {
			if errors.Is(err, domain.ErrArtifactNotFound) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Skipping model %q: %v", e.Name(), err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// stat locates the artifact files and aggregates their size and newest
// modification time. Load and Stat both go through here so they report the
// same ModTime for one version.
func (s *Store) stat(name string) (domain.ModelInfo, layout, error) {
	if !validName(name) {
		return domain.ModelInfo{}, layout{}, fmt.Errorf("%w: invalid model name %q", domain.ErrArtifactNotFound, name)
	}

	dir := filepath.Join(s.dir, name)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return domain.ModelInfo{}, layout{}, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}

	l := layout{
		index:    filepath.Join(dir, IndexFile),
		matrix:   filepath.Join(dir, RelevanceFile),
		nodes:    filepath.Join(dir, NodesFile),
		metadata: filepath.Join(dir, MetadataFile),
	}
	if !fileExists(l.matrix) {
		l.matrix = filepath.Join(dir, EmbeddingsFile)
		l.gram = true
	}

	info := domain.ModelInfo{Name: name}
	for _, path := range []string{l.index, l.matrix, l.nodes} {
		fi, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return domain.ModelInfo{}, layout{}, fmt.Errorf("%w: model %q has no %s",
					domain.ErrArtifactNotFound, name, filepath.Base(path))
			}
			return domain.ModelInfo{}, layout{}, fmt.Errorf("stat %s: %w", path, err)
		}
		addFile(&info, fi)
	}
	if fi, err := os.Stat(l.metadata); err == nil {
		addFile(&info, fi)
	}

	md, err := readMetadata(l.metadata)
	if err != nil {
		return domain.ModelInfo{}, layout{}, corrupt(name, MetadataFile, err)
	}
	info.Version = string(md.Version)
	info.GitHash = string(md.GitHash)
	info.NotebookURL = md.NotebookURL
	info.TeamMembers = string(md.TeamMembers)
	return info, l, nil
}

func addFile(info *domain.ModelInfo, fi os.FileInfo) {
	info.SizeBytes += fi.Size()
	if mt := fi.ModTime(); mt.After(info.ModTime) {
		info.ModTime = mt
	}
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func corrupt(model, file string, err error) error {
	return fmt.Errorf("%w: model %q: %s: %v", domain.ErrCorruptArtifact, model, file, err)
}

// readIndex reads the 1-D node id index.
func readIndex(path string) ([]int64, error) {
	a, err := readNpyFile(path)
	if err != nil {
		return nil, err
	}
	if len(a.shape) != 1 {
		return nil, fmt.Errorf("expected a 1-D array, got shape %v", a.shape)
	}
	return a.Int64s()
}

// readMatrix reads a 2-D float matrix.
func readMatrix(path string) (*domain.Matrix, error) {
	a, err := readNpyFile(path)
	if err != nil {
		return nil, err
	}
	if len(a.shape) != 2 {
		return nil, fmt.Errorf("expected a 2-D array, got shape %v", a.shape)
	}
	return domain.NewMatrix(a.shape[0], a.shape[1], a.Float64s())
}

// readGram reads an n x d embedding matrix E and returns E times its transpose.
func readGram(path string) (*domain.Matrix, error) {
	e, err := readMatrix(path)
	if err != nil {
		return nil, err
	}
	n, d := e.Rows(), e.Cols()
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		ri := e.Row(i)
		for j := i; j < n; j++ {
			rj := e.Row(j)
			var dot float64
			for k := 0; k < d; k++ {
				dot += ri[k] * rj[k]
			}
			out[i*n+j] = dot
			out[j*n+i] = dot
		}
	}
	return domain.NewMatrix(n, n, out)
}
