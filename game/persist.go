package game

import (
	"context"

	"github.com/pkg/errors"
)

// ErrTableNotFound is returned when a table id has no stored table.
var ErrTableNotFound = errors.New("table not found")

// ErrNoActiveTable is returned when a player has no table pointer.
var ErrNoActiveTable = errors.New("player has no active table")

// TableStore is the durable representation of tables: each table under a
// stable key, a set of live table ids and a per-player reverse pointer so
// a reconnecting player or the presence sweep can locate their table
// without scanning. Memory and redis implementations are interchangeable
// and selected at startup.
type TableStore interface {
	LoadTable(ctx context.Context, tableID string) (*Table, error)
	SaveTable(ctx context.Context, table *Table) error
	RemoveTable(ctx context.Context, tableID string) error
	TableIDs(ctx context.Context) ([]string, error)

	SetPlayerTable(ctx context.Context, playerID uint64, tableID string) error
	PlayerTable(ctx context.Context, playerID uint64) (string, error)
	RemovePlayerTable(ctx context.Context, playerID uint64) error
}
