package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/adapters/driven/storage/memory"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// Node ids of the three-node fixture.
const (
	nodeA int64 = 101
	nodeB int64 = 102
	nodeC int64 = 103
)

// mockArtifactStore implements driven.ArtifactStore for testing.
type mockArtifactStore struct {
	mu        sync.Mutex
	artifacts map[string]*domain.ModelArtifact
	modTimes  map[string]time.Time
	loads     map[string]int
	loadDelay time.Duration
	loadErr   error
}

var _ driven.ArtifactStore = (*mockArtifactStore)(nil)

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{
		artifacts: make(map[string]*domain.ModelArtifact),
		modTimes:  make(map[string]time.Time),
		loads:     make(map[string]int),
	}
}

func (m *mockArtifactStore) put(a *domain.ModelArtifact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[a.Name()] = a
	m.modTimes[a.Name()] = a.Info().ModTime
}

func (m *mockArtifactStore) loadCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[name]
}

func (m *mockArtifactStore) Load(_ context.Context, name string) (*domain.ModelArtifact, error) {
	time.Sleep(m.loadDelay)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[name]++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	a, ok := m.artifacts[name]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return a, nil
}

func (m *mockArtifactStore) Stat(_ context.Context, name string) (domain.ModelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[name]
	if !ok {
		return domain.ModelInfo{}, domain.ErrArtifactNotFound
	}
	info := a.Info()
	info.ModTime = m.modTimes[name]
	return info, nil
}

func (m *mockArtifactStore) List(_ context.Context) ([]domain.ModelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]domain.ModelInfo, 0, len(m.artifacts))
	for _, a := range m.artifacts {
		infos = append(infos, a.Info())
	}
	return infos, nil
}

// buildArtifact assembles an artifact from a square matrix. docs and leaves
// give each row's document and leaf flag.
func buildArtifact(
	t *testing.T, name string, ids []int64, docs []int64, leaves []bool, values []float64,
) *domain.ModelArtifact {
	t.Helper()
	return buildArtifactInfo(t, domain.ModelInfo{Name: name, ModTime: time.Unix(1700000000, 0)}, ids, docs, leaves, values)
}

func buildArtifactInfo(
	t *testing.T, info domain.ModelInfo, ids []int64, docs []int64, leaves []bool, values []float64,
) *domain.ModelArtifact {
	t.Helper()
	n := len(ids)
	m, err := domain.NewMatrix(n, n, values)
	require.NoError(t, err)
	table := make([]domain.NodeMeta, n)
	for i, id := range ids {
		table[i] = domain.NodeMeta{ID: id, Row: i, DocumentID: docs[i], IsLeaf: leaves[i]}
	}
	a, err := domain.NewModelArtifact(info, ids, m, table)
	require.NoError(t, err)
	return a
}

// threeNodeArtifact is the A, B, C fixture:
//
//	A [1  .2 .9]
//	B [.2 1  .1]
//	C [.9 .1 1 ]
//
// Each node lives in its own document.
func threeNodeArtifact(t *testing.T) *domain.ModelArtifact {
	return threeNodeArtifactInfo(t, domain.ModelInfo{Name: "baseline", ModTime: time.Unix(1700000000, 0)})
}

func threeNodeArtifactInfo(t *testing.T, info domain.ModelInfo) *domain.ModelArtifact {
	return buildArtifactInfo(t, info,
		[]int64{nodeA, nodeB, nodeC},
		[]int64{1, 2, 3},
		[]bool{true, true, true},
		[]float64{
			1, .2, .9,
			.2, 1, .1,
			.9, .1, 1,
		})
}

// threeNodeStore holds live nodes for the A, B, C fixture.
func threeNodeStore() *memory.NodeStore {
	s := memory.NewNodeStore()
	for i, id := range []int64{nodeA, nodeB, nodeC} {
		doc := int64(i + 1)
		s.PutDocument(domain.Document{ID: doc, SourceID: string(rune('a' + i))})
		s.PutNode(domain.Node{ID: id, DocumentID: doc, Path: "0001", Depth: 1, Title: string(rune('A' + i))})
	}
	return s
}

// fixture wires a registry and node store around the A, B, C artifact.
func fixture(t *testing.T) (*ModelRegistry, *memory.NodeStore) {
	store := newMockArtifactStore()
	store.put(threeNodeArtifact(t))
	return NewModelRegistry(store, "baseline"), threeNodeStore()
}

func ptr[T any](v T) *T { return &v }
