package ports_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
)

// MockStore is a map-backed SnapshotStore for exercising the contract itself.
type MockStore struct {
	data map[string]domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.Snapshot)}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error {
	copied := *snapshot
	copied.State = append([]byte(nil), snapshot.State...)
	m.data[sessionID] = copied
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	snapshot, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return &snapshot, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, NewMockStore())
}

func TestNewScreenID(t *testing.T) {
	a := ports.NewScreenID("detail")
	b := ports.NewScreenID("detail")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), "detail-"))
	assert.Equal(t, "interactive", ports.RemovedInteractively.String())
	assert.Equal(t, "programmatic", ports.RemovedProgrammatically.String())
}
