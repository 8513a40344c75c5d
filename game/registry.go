package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"

	"tribehouse.com/gameserver/util"
)

// Registry owns the table-id to table mapping and is the single writer
// of record. Every mutation of a table happens as a serialized
// read-modify-write under that table's lock: load from the store, run
// the transition, persist the result. A transition error discards the
// loaded copy, so rejected operations never leave partial state behind.
type Registry struct {
	store TableStore
	locks cmap.ConcurrentMap

	// departedHandler settles players whose seats were cleared during a
	// mutation: reverse pointer cleanup and walking-away chips.
	departedHandler func(ctx context.Context, player DepartedPlayer)
}

func NewRegistry(store TableStore) *Registry {
	return &Registry{
		store: store,
		locks: cmap.New(),
	}
}

// SetDepartedHandler installs the settlement hook invoked for every seat
// vacated inside WithTable.
func (r *Registry) SetDepartedHandler(handler func(ctx context.Context, player DepartedPlayer)) {
	r.departedHandler = handler
}

func (r *Registry) tableLock(tableID string) *sync.Mutex {
	r.locks.SetIfAbsent(tableID, &sync.Mutex{})
	lock, _ := r.locks.Get(tableID)
	return lock.(*sync.Mutex)
}

// CreateTable registers a fresh empty table.
func (r *Registry) CreateTable(ctx context.Context, smallBlind int64, bigBlind int64) (*Table, error) {
	table := NewTable(uuid.New().String(), smallBlind, bigBlind)
	if err := r.store.SaveTable(ctx, table); err != nil {
		return nil, errors.Wrap(err, "saving new table")
	}
	util.Metrics.SetActiveTables(r.tableCount(ctx))
	return table, nil
}

// WithTable runs fn against the table under its lock and persists the
// mutated table on success. A table left with no occupied seats is
// discarded instead of saved.
func (r *Registry) WithTable(ctx context.Context, tableID string, fn func(*Table) error) error {
	lock := r.tableLock(tableID)
	lock.Lock()
	defer lock.Unlock()

	table, err := r.store.LoadTable(ctx, tableID)
	if err != nil {
		return err
	}
	if err := fn(table); err != nil {
		return err
	}
	for _, departed := range table.takeDeparted() {
		if err := r.store.RemovePlayerTable(ctx, departed.PlayerID); err != nil {
			return err
		}
		if r.departedHandler != nil {
			r.departedHandler(ctx, departed)
		}
	}
	if table.OccupiedCount() == 0 {
		if err := r.store.RemoveTable(ctx, tableID); err != nil {
			return err
		}
		r.locks.Remove(tableID)
		util.Metrics.SetActiveTables(r.tableCount(ctx))
		return nil
	}
	return r.store.SaveTable(ctx, table)
}

// ReadTable loads a consistent private copy for rendering. Store writes
// are atomic, so readers do not take the table lock.
func (r *Registry) ReadTable(ctx context.Context, tableID string) (*Table, error) {
	return r.store.LoadTable(ctx, tableID)
}

func (r *Registry) TableIDs(ctx context.Context) ([]string, error) {
	return r.store.TableIDs(ctx)
}

func (r *Registry) tableCount(ctx context.Context) int {
	ids, err := r.store.TableIDs(ctx)
	if err != nil {
		return 0
	}
	return len(ids)
}

// TableCount is the number of live tables.
func (r *Registry) TableCount(ctx context.Context) (int, error) {
	ids, err := r.store.TableIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// PlayerTable resolves the player's current table id, or ErrNoActiveTable.
func (r *Registry) PlayerTable(ctx context.Context, playerID uint64) (string, error) {
	return r.store.PlayerTable(ctx, playerID)
}

// SeatPlayer records the reverse player-to-table pointer.
func (r *Registry) SeatPlayer(ctx context.Context, playerID uint64, tableID string) error {
	return r.store.SetPlayerTable(ctx, playerID, tableID)
}

// UnseatPlayer clears the reverse pointer after a seat is vacated.
func (r *Registry) UnseatPlayer(ctx context.Context, playerID uint64) error {
	return r.store.RemovePlayerTable(ctx, playerID)
}
