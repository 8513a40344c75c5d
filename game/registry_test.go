package game

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTableDiscardsFailedMutation(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryTableStore())

	table, err := registry.CreateTable(ctx, 5, 10)
	require.NoError(t, err)
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		_, err := tbl.AddPlayer(1, "alice", 1000)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		tbl.Seats[0].Stack = 0
		return boom
	})
	assert.Equal(t, boom, errors.Cause(err))

	// The failed mutation never reached the store.
	loaded, err := registry.ReadTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), loaded.Seats[0].Stack)
}

func TestWithTableRemovesEmptyTable(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryTableStore())

	table, err := registry.CreateTable(ctx, 5, 10)
	require.NoError(t, err)
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		_, err := tbl.AddPlayer(1, "alice", 1000)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, registry.SeatPlayer(ctx, 1, table.ID))

	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		return tbl.ForceRemove(1)
	})
	require.NoError(t, err)

	_, err = registry.ReadTable(ctx, table.ID)
	assert.True(t, errors.Is(err, ErrTableNotFound))
	_, err = registry.PlayerTable(ctx, 1)
	assert.True(t, errors.Is(err, ErrNoActiveTable))
}

func TestWithTableSettlesDepartures(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryTableStore())

	var settled []DepartedPlayer
	registry.SetDepartedHandler(func(ctx context.Context, departed DepartedPlayer) {
		settled = append(settled, departed)
	})

	table, err := registry.CreateTable(ctx, 5, 10)
	require.NoError(t, err)
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		if _, err := tbl.AddPlayer(1, "alice", 750); err != nil {
			return err
		}
		_, err := tbl.AddPlayer(2, "bob", 500)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, registry.SeatPlayer(ctx, 1, table.ID))
	require.NoError(t, registry.SeatPlayer(ctx, 2, table.ID))

	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		return tbl.ForceRemove(1)
	})
	require.NoError(t, err)

	require.Len(t, settled, 1)
	assert.Equal(t, uint64(1), settled[0].PlayerID)
	assert.Equal(t, int64(750), settled[0].Chips)

	// The remaining player keeps the table alive.
	loaded, err := registry.ReadTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.OccupiedCount())
}

func TestReadTableReturnsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryTableStore())

	table, err := registry.CreateTable(ctx, 5, 10)
	require.NoError(t, err)

	copy1, err := registry.ReadTable(ctx, table.ID)
	require.NoError(t, err)
	copy1.SmallBlind = 999

	copy2, err := registry.ReadTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), copy2.SmallBlind)
}

func TestTableStateSurvivesStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryTableStore())

	table, err := registry.CreateTable(ctx, 5, 10)
	require.NoError(t, err)
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		if _, err := tbl.AddPlayer(1, "alice", 1000); err != nil {
			return err
		}
		if _, err := tbl.AddPlayer(2, "bob", 1000); err != nil {
			return err
		}
		return tbl.StartHand()
	})
	require.NoError(t, err)

	loaded, err := registry.ReadTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, TableStatusInHand, loaded.Status)
	assert.Len(t, loaded.Seats[0].HoleCards, 2)
	assert.Equal(t, 48, loaded.Deck.Remaining())
	assert.Len(t, loaded.PendingAction, 2)
	assert.Equal(t, int64(10), loaded.CurrentBet)

	// A full betting action works against the reloaded copy.
	err = registry.WithTable(ctx, table.ID, func(tbl *Table) error {
		return tbl.Apply(1, PlayerAction{Type: ActionCall})
	})
	require.NoError(t, err)
}
