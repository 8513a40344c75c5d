package game

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tribehouse.com/gameserver/util"
)

var queueLogger = log.With().Str("logger_name", "game::queue").Logger()

// errTableFull makes WithTable skip a candidate table during a drain.
var errTableFull = errors.New("table has no free seat")

// QueueEntry is one funded player waiting for a seat.
type QueueEntry struct {
	PlayerID   uint64    `json:"playerId"`
	Name       string    `json:"name"`
	BuyIn      int64     `json:"buyIn"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// DrainFailure reports one queue entry dropped during a drain. Funding
// failures are not retried.
type DrainFailure struct {
	PlayerID uint64
	Reason   string
}

// DrainReport summarizes one drain pass for state fan-out.
type DrainReport struct {
	Seated []uint64
	Tables []string
	Failed []DrainFailure
}

// MatchmakingQueue is the FIFO waiting list of funded players not yet
// seated. It is drained opportunistically whenever seats may have
// opened.
type MatchmakingQueue struct {
	mu        sync.Mutex
	entries   []*QueueEntry
	registry  *Registry
	wallet    Wallet
	stakes    *StakesConfig
	maxTables int
}

func NewMatchmakingQueue(registry *Registry, wallet Wallet, stakes *StakesConfig, maxTables int) *MatchmakingQueue {
	return &MatchmakingQueue{
		registry:  registry,
		wallet:    wallet,
		stakes:    stakes,
		maxTables: maxTables,
	}
}

// Enqueue adds a player to the waiting list and returns the 1-based
// queue position. Enqueueing is idempotent: a player already queued
// keeps their position, a player already seated is rejected.
func (q *MatchmakingQueue) Enqueue(ctx context.Context, playerID uint64, name string, buyIn int64) (int, error) {
	if buyIn <= 0 {
		return 0, InvalidActionError{Msg: "buy-in must be positive"}
	}
	if _, err := q.registry.PlayerTable(ctx, playerID); err == nil {
		return 0, InvalidActionError{Msg: "player is already seated"}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i, entry := range q.entries {
		if entry.PlayerID == playerID {
			return i + 1, nil
		}
	}
	q.entries = append(q.entries, &QueueEntry{
		PlayerID:   playerID,
		Name:       name,
		BuyIn:      buyIn,
		EnqueuedAt: time.Now(),
	})
	return len(q.entries), nil
}

// Position returns the player's 1-based queue position, or 0.
func (q *MatchmakingQueue) Position(playerID uint64) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, entry := range q.entries {
		if entry.PlayerID == playerID {
			return i + 1
		}
	}
	return 0
}

// Remove drops a player from the waiting list.
func (q *MatchmakingQueue) Remove(playerID uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, entry := range q.entries {
		if entry.PlayerID == playerID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (q *MatchmakingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Drain walks the queue FIFO and seats whoever it can: any table with a
// free seat, or a new table when the table cap allows. The wallet debit
// happens before seating; a funding failure drops the entry with a
// reported failure instead of retrying.
func (q *MatchmakingQueue) Drain(ctx context.Context) *DrainReport {
	q.mu.Lock()
	defer q.mu.Unlock()

	report := &DrainReport{}
	var remaining []*QueueEntry
	for _, entry := range q.entries {
		if _, err := q.registry.PlayerTable(ctx, entry.PlayerID); err == nil {
			// Seated elsewhere since queueing.
			continue
		}
		tableID, err := q.trySeat(ctx, entry)
		if err != nil {
			if IsFundingError(err) {
				queueLogger.Info().
					Uint64("player", entry.PlayerID).
					Msgf("Dropping queue entry: %s", err.Error())
				report.Failed = append(report.Failed, DrainFailure{PlayerID: entry.PlayerID, Reason: err.Error()})
				continue
			}
			queueLogger.Error().
				Uint64("player", entry.PlayerID).
				Msgf("Drain failed: %s", err.Error())
			remaining = append(remaining, entry)
			continue
		}
		if tableID == "" {
			// No capacity; stays queued.
			remaining = append(remaining, entry)
			continue
		}
		report.Seated = append(report.Seated, entry.PlayerID)
		report.Tables = appendUnique(report.Tables, tableID)
	}
	q.entries = remaining
	return report
}

// trySeat places the entry at the first table with a free seat, creating
// a table when none has room and the cap allows. Returns the table id,
// or "" when the player must keep waiting.
func (q *MatchmakingQueue) trySeat(ctx context.Context, entry *QueueEntry) (string, error) {
	ids, err := q.registry.TableIDs(ctx)
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		debited := false
		err := q.registry.WithTable(ctx, id, func(t *Table) error {
			return q.seatAt(ctx, t, entry, &debited)
		})
		if err == nil {
			if err := q.registry.SeatPlayer(ctx, entry.PlayerID, id); err != nil {
				return "", err
			}
			util.Metrics.PlayerSeated()
			return id, nil
		}
		if errors.Is(err, errTableFull) {
			continue
		}
		if debited {
			q.refund(ctx, entry)
		}
		return "", err
	}

	count, err := q.registry.TableCount(ctx)
	if err != nil {
		return "", err
	}
	if count >= q.maxTables {
		return "", nil
	}

	smallBlind, bigBlind := q.stakes.BlindsFor(entry.BuyIn)
	table, err := q.registry.CreateTable(ctx, smallBlind, bigBlind)
	if err != nil {
		return "", err
	}
	debited := false
	err = q.registry.WithTable(ctx, table.ID, func(t *Table) error {
		return q.seatAt(ctx, t, entry, &debited)
	})
	if err != nil {
		if debited {
			q.refund(ctx, entry)
		}
		// Discard the freshly created empty table.
		_ = q.registry.WithTable(ctx, table.ID, func(t *Table) error { return nil })
		return "", err
	}
	if err := q.registry.SeatPlayer(ctx, entry.PlayerID, table.ID); err != nil {
		return "", err
	}
	util.Metrics.PlayerSeated()
	return table.ID, nil
}

// seatAt debits the buy-in and seats the entry at the locked table.
// Seating a second funded player on a waiting table starts a hand.
func (q *MatchmakingQueue) seatAt(ctx context.Context, t *Table, entry *QueueEntry, debited *bool) error {
	if t.FreeSeat() < 0 {
		return errTableFull
	}
	if err := q.wallet.Debit(ctx, entry.PlayerID, entry.BuyIn); err != nil {
		return err
	}
	*debited = true
	if _, err := t.AddPlayer(entry.PlayerID, entry.Name, entry.BuyIn); err != nil {
		return err
	}
	if t.Status == TableStatusWaiting && t.FundedCount() >= 2 {
		return t.StartHand()
	}
	return nil
}

func (q *MatchmakingQueue) refund(ctx context.Context, entry *QueueEntry) {
	if err := q.wallet.Credit(ctx, entry.PlayerID, entry.BuyIn); err != nil {
		queueLogger.Error().
			Uint64("player", entry.PlayerID).
			Msgf("Failed to refund buy-in %d: %s", entry.BuyIn, err.Error())
	}
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
