package nats

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"tribehouse.com/gameserver/game"
)

// Adapter bridges NATS and the game facade. Inbound player intents
// arrive on a shared request subject; engine output goes out on
// per-player subjects.

var natsLogger = log.With().Str("logger_name", "nats::adapter").Logger()

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	RequestQueue      = "QUEUE"
	RequestAction     = "ACTION"
	RequestRebuy      = "REBUY"
	RequestLeave      = "LEAVE"
	RequestState      = "STATE"
	RequestHeartbeat  = "HEARTBEAT"
	RequestHandResult = "HAND_RESULT"
)

type playerRequest struct {
	PlayerID uint64             `json:"playerId"`
	Name     string             `json:"name,omitempty"`
	Type     string             `json:"type"`
	Amount   int64              `json:"amount,omitempty"`
	Action   *game.PlayerAction `json:"action,omitempty"`
	HandID   string             `json:"handId,omitempty"`
}

type errorReply struct {
	PlayerID uint64 `json:"playerId"`
	Error    string `json:"error"`
}

type Adapter struct {
	nc      *natsgo.Conn
	facade  *game.GameFacade
	reqSub  *natsgo.Subscription
	running bool
}

func NewAdapter(nc *natsgo.Conn) *Adapter {
	return &Adapter{nc: nc}
}

// SetFacade must be called before Start. The adapter is constructed
// first so the facade can use it as its publisher.
func (a *Adapter) SetFacade(facade *game.GameFacade) {
	a.facade = facade
}

func (a *Adapter) Start() error {
	if a.facade == nil {
		return fmt.Errorf("nats adapter started without a facade")
	}
	sub, err := a.nc.Subscribe(PlayerRequestSubject, a.onPlayerRequest)
	if err != nil {
		natsLogger.Error().Msgf("Failed to subscribe to %s", PlayerRequestSubject)
		return err
	}
	a.reqSub = sub
	a.running = true
	natsLogger.Info().Msgf("Listening for player requests on %s", PlayerRequestSubject)
	return nil
}

func (a *Adapter) Stop() {
	if a.reqSub != nil {
		a.reqSub.Unsubscribe()
		a.reqSub = nil
	}
	a.running = false
}

func (a *Adapter) onPlayerRequest(msg *natsgo.Msg) {
	var req playerRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		natsLogger.Error().Msgf("Failed to parse player request: %s", err.Error())
		return
	}
	if req.PlayerID == 0 {
		natsLogger.Error().Msg("Player request without a player id")
		return
	}

	ctx := context.Background()
	reply, err := a.dispatch(ctx, &req)
	if err != nil {
		a.PublishError(req.PlayerID, err.Error())
		return
	}
	if reply == nil {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		natsLogger.Error().Uint64("player", req.PlayerID).
			Msgf("Failed to marshal reply: %s", err.Error())
		return
	}
	if msg.Reply != "" {
		a.nc.Publish(msg.Reply, data)
		return
	}
	if req.Type == RequestHandResult {
		a.nc.Publish(GetHandResultSubject(req.PlayerID), data)
		return
	}
	a.nc.Publish(GetPlayerStateSubject(req.PlayerID), data)
}

func (a *Adapter) dispatch(ctx context.Context, req *playerRequest) (interface{}, error) {
	switch req.Type {
	case RequestQueue:
		return a.facade.Queue(ctx, req.PlayerID, req.Name, req.Amount)
	case RequestAction:
		if req.Action == nil {
			return nil, game.InvalidActionError{Msg: "action request without an action"}
		}
		return a.facade.Act(ctx, req.PlayerID, *req.Action)
	case RequestRebuy:
		return a.facade.Rebuy(ctx, req.PlayerID, req.Amount)
	case RequestLeave:
		return nil, a.facade.Leave(ctx, req.PlayerID)
	case RequestState:
		return a.facade.State(ctx, req.PlayerID)
	case RequestHeartbeat:
		a.facade.Heartbeat(req.PlayerID)
		return nil, nil
	case RequestHandResult:
		result, ok := a.facade.HandResult(req.HandID)
		if !ok {
			return nil, game.InvalidActionError{Msg: fmt.Sprintf("no result for hand %s", req.HandID)}
		}
		return result, nil
	default:
		return nil, game.InvalidActionError{Msg: fmt.Sprintf("unknown request type %s", req.Type)}
	}
}

// PublishState implements game.StatePublisher.
func (a *Adapter) PublishState(playerID uint64, view *game.TableView) {
	data, err := json.Marshal(view)
	if err != nil {
		natsLogger.Error().Uint64("player", playerID).
			Msgf("Failed to marshal table view: %s", err.Error())
		return
	}
	if err := a.nc.Publish(GetPlayerStateSubject(playerID), data); err != nil {
		natsLogger.Error().Uint64("player", playerID).
			Msgf("Failed to publish state: %s", err.Error())
	}
}

// PublishError implements game.StatePublisher.
func (a *Adapter) PublishError(playerID uint64, message string) {
	data, err := json.Marshal(errorReply{PlayerID: playerID, Error: message})
	if err != nil {
		return
	}
	if err := a.nc.Publish(GetPlayerErrorSubject(playerID), data); err != nil {
		natsLogger.Error().Uint64("player", playerID).
			Msgf("Failed to publish error: %s", err.Error())
	}
}
