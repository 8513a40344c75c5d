package game

import (
	"context"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/rs/zerolog/log"

	"tribehouse.com/gameserver/util"
)

var presenceLogger = log.With().Str("logger_name", "game::presence").Logger()

// PresenceTracker keeps a last-seen timestamp per player in the game
// context and periodically forces silent players out of their table or
// queue spot. It owns no game state itself; it only correlates player
// ids against the registry.
type PresenceTracker struct {
	registry *Registry
	queue    *MatchmakingQueue
	seen     cmap.ConcurrentMap
	interval time.Duration
	grace    time.Duration
	chEnd    chan bool

	// onSwept is notified with every table touched by a sweep so the
	// facade can fan updated snapshots out.
	onSwept func(tableIDs []string)
}

func NewPresenceTracker(registry *Registry, queue *MatchmakingQueue, interval time.Duration, grace time.Duration) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		queue:    queue,
		seen:     cmap.New(),
		interval: interval,
		grace:    grace,
		chEnd:    make(chan bool),
	}
}

func (p *PresenceTracker) SetSweepHandler(fn func(tableIDs []string)) {
	p.onSwept = fn
}

func presenceKey(playerID uint64) string {
	return strconv.FormatUint(playerID, 10)
}

// Touch stamps the player's last-seen time. Every inbound player message
// counts as activity.
func (p *PresenceTracker) Touch(playerID uint64) {
	p.seen.Set(presenceKey(playerID), time.Now())
}

// Forget stops tracking a player who left the game context.
func (p *PresenceTracker) Forget(playerID uint64) {
	p.seen.Remove(presenceKey(playerID))
}

func (p *PresenceTracker) LastSeen(playerID uint64) (time.Time, bool) {
	v, ok := p.seen.Get(presenceKey(playerID))
	if !ok {
		return time.Time{}, false
	}
	return v.(time.Time), true
}

// Start runs the periodic sweep until Stop is called.
func (p *PresenceTracker) Start() {
	go p.loop()
}

func (p *PresenceTracker) Stop() {
	p.chEnd <- true
}

func (p *PresenceTracker) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.chEnd:
			return
		case <-ticker.C:
			affected := p.Sweep(context.Background())
			if len(affected) > 0 && p.onSwept != nil {
				p.onSwept(affected)
			}
		}
	}
}

// Sweep forces out every tracked player whose last activity is older
// than the grace window, then drains the queue since seats may have
// opened. Returns the ids of every table touched.
func (p *PresenceTracker) Sweep(ctx context.Context) []string {
	var affected []string
	for _, key := range p.seen.Keys() {
		v, ok := p.seen.Get(key)
		if !ok {
			continue
		}
		if time.Since(v.(time.Time)) <= p.grace {
			continue
		}
		playerID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			p.seen.Remove(key)
			continue
		}

		if p.queue.Remove(playerID) {
			presenceLogger.Info().
				Uint64("player", playerID).
				Msg("Pruned silent player from the waiting queue")
			p.seen.Remove(key)
			util.Metrics.PlayerPruned()
			continue
		}

		tableID, err := p.registry.PlayerTable(ctx, playerID)
		if err != nil {
			// Not in any game context anymore.
			p.seen.Remove(key)
			continue
		}
		err = p.registry.WithTable(ctx, tableID, func(t *Table) error {
			return t.ForceRemove(playerID)
		})
		if err != nil {
			presenceLogger.Error().
				Uint64("player", playerID).
				Str("table", tableID).
				Msgf("Failed to prune player: %s", err.Error())
			continue
		}
		presenceLogger.Info().
			Uint64("player", playerID).
			Str("table", tableID).
			Msg("Pruned silent player from table")
		p.seen.Remove(key)
		util.Metrics.PlayerPruned()
		affected = append(affected, tableID)
	}

	report := p.queue.Drain(ctx)
	for _, tableID := range report.Tables {
		affected = appendUnique(affected, tableID)
	}
	return affected
}
