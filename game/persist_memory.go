package game

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MemoryTableStore keeps the serialized tables in process maps. Used for
// single-instance deployments and tests. Tables are stored as JSON bytes
// so every load hands back a private copy, same as the redis store.
type MemoryTableStore struct {
	mu           sync.RWMutex
	tables       map[string][]byte
	playerTables map[uint64]string
}

func NewMemoryTableStore() *MemoryTableStore {
	return &MemoryTableStore{
		tables:       make(map[string][]byte),
		playerTables: make(map[uint64]string),
	}
}

func (m *MemoryTableStore) LoadTable(ctx context.Context, tableID string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tableBytes, ok := m.tables[tableID]
	if !ok {
		return nil, errors.Wrapf(ErrTableNotFound, "table %s", tableID)
	}
	table := &Table{}
	if err := json.Unmarshal(tableBytes, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (m *MemoryTableStore) SaveTable(ctx context.Context, table *Table) error {
	tableBytes, err := json.Marshal(table)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = tableBytes
	return nil
}

func (m *MemoryTableStore) RemoveTable(ctx context.Context, tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, tableID)
	return nil
}

func (m *MemoryTableStore) TableIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryTableStore) SetPlayerTable(ctx context.Context, playerID uint64, tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerTables[playerID] = tableID
	return nil
}

func (m *MemoryTableStore) PlayerTable(ctx context.Context, playerID uint64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tableID, ok := m.playerTables[playerID]
	if !ok {
		return "", errors.Wrapf(ErrNoActiveTable, "player %d", playerID)
	}
	return tableID, nil
}

func (m *MemoryTableStore) RemovePlayerTable(ctx context.Context, playerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.playerTables, playerID)
	return nil
}
