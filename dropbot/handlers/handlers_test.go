package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/metrics"
	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dropRouter struct {
	live map[snowflake.ID]bool
	got  []drop.ReactionEvent
}

func (d *dropRouter) HandleReaction(ev drop.ReactionEvent) bool {
	d.got = append(d.got, ev)
	return d.live[ev.MessageID]
}

type tradeRouter struct {
	outcome trade.Outcome
	calls   int
}

func (t *tradeRouter) HandleReaction(_ context.Context, _, _ snowflake.ID, _ string) trade.Outcome {
	t.calls++
	return t.outcome
}

func TestReactionHandler_DropsFirst(t *testing.T) {
	drops := &dropRouter{live: map[snowflake.ID]bool{10: true}}
	trades := &tradeRouter{outcome: trade.OutcomeAccepted}
	h := NewReactionHandler(drops, trades)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, h.Handle(Reaction{MessageID: 10, UserID: 1, Emoji: "1️⃣", At: at}))
	require.Len(t, drops.got, 1)
	assert.Equal(t, "1️⃣", drops.got[0].Symbol)
	assert.Equal(t, at, drops.got[0].At)
	assert.Zero(t, trades.calls)
}

func TestReactionHandler_FallsThroughToTrades(t *testing.T) {
	drops := &dropRouter{}
	trades := &tradeRouter{outcome: trade.OutcomeDeclined}
	h := NewReactionHandler(drops, trades)

	before := testutil.ToFloat64(metrics.Trades.WithLabelValues("declined"))
	assert.True(t, h.Handle(Reaction{MessageID: 20, UserID: 2, Emoji: "❌"}))
	assert.Equal(t, 1, trades.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Trades.WithLabelValues("declined")))

	trades.outcome = trade.OutcomeIgnored
	assert.False(t, h.Handle(Reaction{MessageID: 21, UserID: 2, Emoji: "❌"}))
}

func TestReactionHandler_BotsSkipTrades(t *testing.T) {
	trades := &tradeRouter{outcome: trade.OutcomeAccepted}
	h := NewReactionHandler(&dropRouter{}, trades)

	assert.False(t, h.Handle(Reaction{MessageID: 30, UserID: 3, Emoji: "✅", IsBot: true}))
	assert.Zero(t, trades.calls)
}

func TestObserve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		err := observe("cmd", "observe-ok", nil, func() error { return nil })
		assert.NoError(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("observe-ok", "success")))
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("boom")
		err := observe("cmd", "observe-fail", nil, func() error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("observe-fail", "error")))
	})

	t.Run("timeout", func(t *testing.T) {
		old := executionTimeout
		executionTimeout = 20 * time.Millisecond
		defer func() { executionTimeout = old }()

		release := make(chan struct{})
		defer close(release)
		err := observe("cmd", "observe-slow", nil, func() error {
			<-release
			return nil
		})
		assert.ErrorContains(t, err, "timed out")
	})
}
