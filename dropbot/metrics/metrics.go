package metrics

import (
	"strconv"
	"time"

	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dropbot"

// Drop metrics
var (
	DropsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops_started_total",
			Help:      "Drops announced, by whether a bypass item was spent",
		},
		[]string{"bypass"},
	)

	DropsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drops_active",
			Help:      "Drop sessions currently accepting reactions",
		},
	)

	DropsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops_ended_total",
			Help:      "Finished drop sessions by terminal state",
		},
		[]string{"state"},
	)

	Reactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drop_reactions_total",
			Help:      "Reactions routed to drop sessions by verdict",
		},
		[]string{"verdict"},
	)

	CardsClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_claimed_total",
			Help:      "Cards written to collections by rarity",
		},
		[]string{"rarity"},
	)
)

// Trade and command metrics
var (
	Trades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Settled trade offers by outcome",
		},
		[]string{"outcome"},
	)

	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Slash commands and components handled",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a command",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"command"},
	)
)

// ObserveCommand records one handled command.
func ObserveCommand(name string, took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Commands.WithLabelValues(name, status).Inc()
	CommandDuration.WithLabelValues(name).Observe(took.Seconds())
}

// DropObserver feeds drop lifecycle events into the drop metrics.
type DropObserver struct{}

var _ drop.Observer = DropObserver{}

func (DropObserver) DropStarted(bypass bool) {
	DropsStarted.WithLabelValues(strconv.FormatBool(bypass)).Inc()
	DropsActive.Inc()
}

func (DropObserver) ReactionHandled(v drop.Verdict) {
	Reactions.WithLabelValues(string(v)).Inc()
}

func (DropObserver) CardClaimed(tier string) {
	CardsClaimed.WithLabelValues(tier).Inc()
}

func (DropObserver) SessionEnded(state drop.State, _ int) {
	DropsEnded.WithLabelValues(state.String()).Inc()
	DropsActive.Dec()
}
