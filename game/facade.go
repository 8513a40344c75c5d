package game

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

var facadeLogger = log.With().Str("logger_name", "game::facade").Logger()

const handHistorySize = 128

// StatePublisher fans engine output to connected players. The transport
// layer supplies the implementation.
type StatePublisher interface {
	PublishState(playerID uint64, view *TableView)
	PublishError(playerID uint64, message string)
}

// StateReply answers queue and state intents: either the player's table
// snapshot or their queue position.
type StateReply struct {
	Queued        bool       `json:"queued,omitempty"`
	QueuePosition int        `json:"queuePosition,omitempty"`
	TableID       string     `json:"tableId,omitempty"`
	State         *TableView `json:"state,omitempty"`
}

// GameFacade is the only entry point the transport layer consumes. It
// translates player intents into table, queue and presence operations
// and renders per-player snapshots.
type GameFacade struct {
	registry  *Registry
	queue     *MatchmakingQueue
	presence  *PresenceTracker
	wallet    Wallet
	publisher StatePublisher
	history   *lru.Cache
}

func NewGameFacade(registry *Registry, queue *MatchmakingQueue, presence *PresenceTracker, wallet Wallet, publisher StatePublisher) (*GameFacade, error) {
	history, err := lru.New(handHistorySize)
	if err != nil {
		return nil, err
	}
	f := &GameFacade{
		registry:  registry,
		queue:     queue,
		presence:  presence,
		wallet:    wallet,
		publisher: publisher,
		history:   history,
	}
	registry.SetDepartedHandler(f.settleDeparted)
	presence.SetSweepHandler(func(tableIDs []string) {
		f.fanOut(context.Background(), tableIDs)
	})
	return f, nil
}

// settleDeparted credits a vacated player's remaining chips back to
// their wallet. Called under the table lock for every cleared seat.
func (f *GameFacade) settleDeparted(ctx context.Context, departed DepartedPlayer) {
	f.presence.Forget(departed.PlayerID)
	if departed.Chips <= 0 {
		return
	}
	if err := f.wallet.Credit(ctx, departed.PlayerID, departed.Chips); err != nil {
		facadeLogger.Error().
			Uint64("player", departed.PlayerID).
			Int64("chips", departed.Chips).
			Msgf("Failed to credit walk-away chips: %s", err.Error())
	}
}

// Queue funds and seats the caller, or parks them on the waiting list.
func (f *GameFacade) Queue(ctx context.Context, playerID uint64, name string, amount int64) (*StateReply, error) {
	f.presence.Touch(playerID)

	if tableID, err := f.registry.PlayerTable(ctx, playerID); err == nil {
		view, err := f.renderFor(ctx, tableID, playerID)
		if err != nil {
			return nil, err
		}
		return &StateReply{TableID: tableID, State: view}, nil
	}

	if _, err := f.queue.Enqueue(ctx, playerID, name, amount); err != nil {
		return nil, err
	}
	report := f.queue.Drain(ctx)
	f.reportFailures(report)
	f.fanOut(ctx, report.Tables)

	if tableID, err := f.registry.PlayerTable(ctx, playerID); err == nil {
		view, err := f.renderFor(ctx, tableID, playerID)
		if err != nil {
			return nil, err
		}
		return &StateReply{TableID: tableID, State: view}, nil
	}
	for _, failed := range report.Failed {
		if failed.PlayerID == playerID {
			return nil, FundingError{PlayerID: playerID, Amount: amount, Msg: failed.Reason}
		}
	}
	return &StateReply{Queued: true, QueuePosition: f.queue.Position(playerID)}, nil
}

// Act applies one betting action for the caller and returns their
// updated snapshot. Every other player at an affected table gets a state
// push.
func (f *GameFacade) Act(ctx context.Context, playerID uint64, action PlayerAction) (*TableView, error) {
	f.presence.Touch(playerID)

	tableID, err := f.registry.PlayerTable(ctx, playerID)
	if err != nil {
		return nil, InvalidActionError{Msg: "player has no active table"}
	}

	var result *HandResult
	err = f.registry.WithTable(ctx, tableID, func(t *Table) error {
		if err := t.Apply(playerID, action); err != nil {
			return err
		}
		result = t.LastResult
		return nil
	})
	if err != nil {
		if !IsValidationError(err) {
			facadeLogger.Error().
				Uint64("player", playerID).
				Str("table", tableID).
				Msgf("Action failed: %s", err.Error())
		}
		return nil, err
	}
	if result != nil {
		f.history.Add(result.HandID, result)
	}

	// A concluded hand may have freed seats.
	report := f.queue.Drain(ctx)
	f.reportFailures(report)
	f.fanOut(ctx, append([]string{tableID}, report.Tables...))

	return f.renderFor(ctx, tableID, playerID)
}

// Rebuy adds chips to a seated player between hands after a wallet
// debit.
func (f *GameFacade) Rebuy(ctx context.Context, playerID uint64, amount int64) (*TableView, error) {
	f.presence.Touch(playerID)
	if amount <= 0 {
		return nil, InvalidActionError{Msg: "rebuy amount must be positive"}
	}
	tableID, err := f.registry.PlayerTable(ctx, playerID)
	if err != nil {
		return nil, InvalidActionError{Msg: "player has no active table"}
	}
	err = f.registry.WithTable(ctx, tableID, func(t *Table) error {
		seat := t.SeatOfPlayer(playerID)
		if seat == nil {
			return IntegrityError{Msg: "player index points at a table without their seat"}
		}
		if t.Status == TableStatusInHand && seat.InHand() {
			return InvalidActionError{Msg: "cannot rebuy during a hand"}
		}
		if err := f.wallet.Debit(ctx, playerID, amount); err != nil {
			return err
		}
		seat.Stack += amount
		t.logf("%s rebuys %d chips", seat.Name, amount)
		if t.Status == TableStatusWaiting && t.FundedCount() >= 2 {
			return t.StartHand()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.fanOut(ctx, []string{tableID})
	return f.renderFor(ctx, tableID, playerID)
}

// Leave removes the caller voluntarily, with the same fold-if-mid-hand
// semantics as presence pruning.
func (f *GameFacade) Leave(ctx context.Context, playerID uint64) error {
	if f.queue.Remove(playerID) {
		f.presence.Forget(playerID)
		return nil
	}
	tableID, err := f.registry.PlayerTable(ctx, playerID)
	if err != nil {
		return InvalidActionError{Msg: "player has no active table"}
	}
	err = f.registry.WithTable(ctx, tableID, func(t *Table) error {
		return t.ForceRemove(playerID)
	})
	if err != nil {
		return err
	}
	f.presence.Forget(playerID)

	report := f.queue.Drain(ctx)
	f.reportFailures(report)
	f.fanOut(ctx, append([]string{tableID}, report.Tables...))
	return nil
}

// State answers a pull for the caller's current snapshot.
func (f *GameFacade) State(ctx context.Context, playerID uint64) (*StateReply, error) {
	f.presence.Touch(playerID)
	if tableID, err := f.registry.PlayerTable(ctx, playerID); err == nil {
		view, err := f.renderFor(ctx, tableID, playerID)
		if err != nil {
			return nil, err
		}
		return &StateReply{TableID: tableID, State: view}, nil
	}
	if pos := f.queue.Position(playerID); pos > 0 {
		return &StateReply{Queued: true, QueuePosition: pos}, nil
	}
	return &StateReply{}, nil
}

// Heartbeat stamps presence without any game mutation.
func (f *GameFacade) Heartbeat(playerID uint64) {
	f.presence.Touch(playerID)
}

// HandResult looks up a recently concluded hand by id.
func (f *GameFacade) HandResult(handID string) (*HandResult, bool) {
	v, ok := f.history.Get(handID)
	if !ok {
		return nil, false
	}
	return v.(*HandResult), true
}

func (f *GameFacade) renderFor(ctx context.Context, tableID string, playerID uint64) (*TableView, error) {
	table, err := f.registry.ReadTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return table.RenderFor(playerID), nil
}

// fanOut pushes a fresh snapshot to every seated player at the given
// tables. Tables discarded in the meantime are skipped.
func (f *GameFacade) fanOut(ctx context.Context, tableIDs []string) {
	if f.publisher == nil {
		return
	}
	for _, tableID := range tableIDs {
		table, err := f.registry.ReadTable(ctx, tableID)
		if err != nil {
			continue
		}
		for _, seat := range table.Seats {
			if seat == nil || seat.PendingLeave {
				continue
			}
			f.publisher.PublishState(seat.PlayerID, table.RenderFor(seat.PlayerID))
		}
	}
}

func (f *GameFacade) reportFailures(report *DrainReport) {
	if f.publisher == nil {
		return
	}
	for _, failed := range report.Failed {
		f.publisher.PublishError(failed.PlayerID, failed.Reason)
	}
}
