package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsDealtCounter     prometheus.Counter
	actionsAppliedCounter prometheus.Counter
	playersSeatedCounter  prometheus.Counter
	playersPrunedCounter  prometheus.Counter
	activeTablesGauge     prometheus.Gauge
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionApplied() {
	m.actionsAppliedCounter.Inc()
}

func (m *metrics) PlayerSeated() {
	m.playersSeatedCounter.Inc()
}

func (m *metrics) PlayerPruned() {
	m.playersPrunedCounter.Inc()
}

func (m *metrics) SetActiveTables(count int) {
	m.activeTablesGauge.Set(float64(count))
}

var Metrics = &metrics{
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands dealt",
	}),
	actionsAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_applied_total",
		Help: "Total number of betting actions applied",
	}),
	playersSeatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_seated_total",
		Help: "Total number of players seated from the queue",
	}),
	playersPrunedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_pruned_total",
		Help: "Total number of players removed by the presence sweeper",
	}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_tables_count",
		Help: "Count of tables currently tracked by the registry",
	}),
}
