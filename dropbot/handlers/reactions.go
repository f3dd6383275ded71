package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/metrics"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// DropRouter accepts reactions on live drop messages.
type DropRouter interface {
	HandleReaction(ev drop.ReactionEvent) bool
}

// TradeRouter accepts reactions on pending trade offers.
type TradeRouter interface {
	HandleReaction(ctx context.Context, messageID, userID snowflake.ID, emoji string) trade.Outcome
}

// Reaction is the part of a gateway reaction event the game cares about.
type Reaction struct {
	MessageID snowflake.ID
	UserID    snowflake.ID
	Emoji     string
	IsBot     bool
	At        time.Time
}

// ReactionHandler dispatches reaction adds to drops first, then trades.
type ReactionHandler struct {
	drops  DropRouter
	trades TradeRouter
}

func NewReactionHandler(drops DropRouter, trades TradeRouter) *ReactionHandler {
	return &ReactionHandler{drops: drops, trades: trades}
}

// OnGuildReactionAdd is registered as a gateway listener.
func (h *ReactionHandler) OnGuildReactionAdd(e *events.GuildMessageReactionAdd) {
	if e.Emoji.Name == nil {
		return
	}
	h.Handle(Reaction{
		MessageID: e.MessageID,
		UserID:    e.UserID,
		Emoji:     *e.Emoji.Name,
		IsBot:     e.Member.User.Bot,
		At:        time.Now(),
	})
}

// Handle routes r and reports whether anything consumed it.
func (h *ReactionHandler) Handle(r Reaction) bool {
	if h.drops != nil && h.drops.HandleReaction(drop.ReactionEvent{
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Symbol:    r.Emoji,
		IsBot:     r.IsBot,
		At:        r.At,
	}) {
		return true
	}

	if r.IsBot || h.trades == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	outcome := h.trades.HandleReaction(ctx, r.MessageID, r.UserID, r.Emoji)
	if outcome == trade.OutcomeIgnored {
		return false
	}
	metrics.Trades.WithLabelValues(string(outcome)).Inc()
	slog.Debug("Trade reaction handled",
		slog.String("type", "game"),
		slog.String("message_id", r.MessageID.String()),
		slog.String("outcome", string(outcome)),
	)
	return true
}
