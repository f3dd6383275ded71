package trade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

var (
	ErrSelfTrade    = errors.New("you can't trade with yourself")
	ErrCardNotFound = errors.New("card not found")
	ErrNotOwner     = errors.New("you don't own that card")
	ErrOfferPending = errors.New("you already have a pending offer to this user")
	ErrCardInOffer  = errors.New("that card is already part of a pending offer")
	ErrClosed       = errors.New("trade manager is closed")
)

type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeAccepted Outcome = "accepted"
	OutcomeDeclined Outcome = "declined"
	OutcomeFailed   Outcome = "failed"
)

// Offer is one pending card offer from a sender to a recipient.
type Offer struct {
	ID          string
	SenderID    snowflake.ID
	RecipientID snowflake.ID
	CardUID     string
	ChannelID   snowflake.ID
	MessageID   snowflake.ID
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

type CardStore interface {
	GetByUID(ctx context.Context, uid string) (*models.OwnedCard, error)
	TransferCard(ctx context.Context, uid, fromID, toID string) (*models.OwnedCard, error)
}

// AuditLog records every offer and how it ended.
type AuditLog interface {
	Create(ctx context.Context, trade *models.Trade) error
	UpdateStatus(ctx context.Context, tradeID string, status models.TradeStatus) error
}

type Publisher interface {
	// PublishOffer posts the offer with accept and decline reactions and returns its message.
	PublishOffer(ctx context.Context, offer Offer, card *models.OwnedCard) (snowflake.ID, error)
	Notify(ctx context.Context, channelID snowflake.ID, content string) error
}

type pair struct {
	sender, recipient snowflake.ID
}

type entry struct {
	offer Offer
	timer *time.Timer
}

// Manager holds pending offers in memory keyed by (sender, recipient). A sender may have
// offers out to several recipients at once, but a card can only be in one of them.
type Manager struct {
	cards     CardStore
	audit     AuditLog
	publisher Publisher
	expiry    time.Duration
	now       func() time.Time

	mu        sync.Mutex
	byPair    map[pair]*entry
	byMessage map[snowflake.ID]*entry
	byCard    map[string]pair
	closed    bool
}

func NewManager(cards CardStore, audit AuditLog, publisher Publisher, expiry time.Duration) *Manager {
	return &Manager{
		cards:     cards,
		audit:     audit,
		publisher: publisher,
		expiry:    expiry,
		now:       time.Now,
		byPair:    make(map[pair]*entry),
		byMessage: make(map[snowflake.ID]*entry),
		byCard:    make(map[string]pair),
	}
}

// Propose checks ownership, posts the offer and arms its expiry.
func (m *Manager) Propose(ctx context.Context, senderID, recipientID, channelID snowflake.ID, uid string) (*Offer, error) {
	if senderID == recipientID {
		return nil, ErrSelfTrade
	}
	uid = strings.ToUpper(strings.TrimSpace(uid))

	card, err := m.cards.GetByUID(ctx, uid)
	if repositories.IsNotFound(err) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if card.UserID != senderID.String() {
		return nil, ErrNotOwner
	}
	uid = card.UID

	now := m.now()
	key := pair{sender: senderID, recipient: recipientID}
	e := &entry{offer: Offer{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		CardUID:     uid,
		ChannelID:   channelID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.expiry),
	}}
	if err = m.reserve(key, e); err != nil {
		return nil, err
	}

	messageID, err := m.publisher.PublishOffer(ctx, e.offer, card)
	if err != nil {
		m.release(key, e)
		return nil, fmt.Errorf("failed to publish offer: %w", err)
	}

	m.mu.Lock()
	e.offer.MessageID = messageID
	m.byMessage[messageID] = e
	e.timer = time.AfterFunc(m.expiry, func() { m.expire(key, e) })
	offer := e.offer
	m.mu.Unlock()

	if err = m.audit.Create(ctx, &models.Trade{
		TradeID:   offer.ID,
		OffererID: senderID.String(),
		TargetID:  recipientID.String(),
		CardUID:   uid,
		Status:    models.TradePending,
		ExpiresAt: offer.ExpiresAt,
	}); err != nil {
		logger.LogError("Failed to record trade offer", err, slog.String("trade_id", offer.ID))
	}

	logger.LogGame("Trade offered",
		slog.String("trade_id", offer.ID),
		slog.String("sender_id", senderID.String()),
		slog.String("recipient_id", recipientID.String()),
		slog.String("uid", uid),
	)
	return &offer, nil
}

func (m *Manager) reserve(key pair, e *entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.byPair[key]; ok {
		return ErrOfferPending
	}
	if _, ok := m.byCard[e.offer.CardUID]; ok {
		return ErrCardInOffer
	}
	m.byPair[key] = e
	m.byCard[e.offer.CardUID] = key
	return nil
}

// release drops the offer if it is still the one registered for key. It reports whether it did.
func (m *Manager) release(key pair, e *entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byPair[key] != e {
		return false
	}
	delete(m.byPair, key)
	delete(m.byCard, e.offer.CardUID)
	if e.offer.MessageID != 0 {
		delete(m.byMessage, e.offer.MessageID)
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	return true
}

// HandleReaction settles an offer when its recipient reacts. Reactions from anyone else,
// or with other emoji, are ignored.
func (m *Manager) HandleReaction(ctx context.Context, messageID, userID snowflake.ID, emoji string) Outcome {
	m.mu.Lock()
	e, ok := m.byMessage[messageID]
	m.mu.Unlock()
	if !ok || userID != e.offer.RecipientID {
		return OutcomeIgnored
	}

	switch emoji {
	case config.AcceptEmoji:
		return m.accept(ctx, e)
	case config.DeclineEmoji:
		return m.decline(ctx, e)
	default:
		return OutcomeIgnored
	}
}

func (m *Manager) accept(ctx context.Context, e *entry) Outcome {
	o := e.offer
	if !m.release(pair{o.SenderID, o.RecipientID}, e) {
		return OutcomeIgnored
	}

	_, err := m.cards.TransferCard(ctx, o.CardUID, o.SenderID.String(), o.RecipientID.String())
	if err != nil {
		logger.LogError("Trade transfer failed", err, slog.String("trade_id", o.ID), slog.String("uid", o.CardUID))
		m.settle(ctx, o, models.TradeFailed)
		m.notify(ctx, o.ChannelID, fmt.Sprintf("The trade for `%s` could not be completed, the card is no longer available.", o.CardUID))
		return OutcomeFailed
	}

	m.settle(ctx, o, models.TradeAccepted)
	m.notify(ctx, o.ChannelID, fmt.Sprintf("Trade complete! <@%s> now owns `%s`.", o.RecipientID, o.CardUID))
	return OutcomeAccepted
}

func (m *Manager) decline(ctx context.Context, e *entry) Outcome {
	o := e.offer
	if !m.release(pair{o.SenderID, o.RecipientID}, e) {
		return OutcomeIgnored
	}
	m.settle(ctx, o, models.TradeDeclined)
	m.notify(ctx, o.ChannelID, fmt.Sprintf("<@%s> declined the trade for `%s`.", o.RecipientID, o.CardUID))
	return OutcomeDeclined
}

func (m *Manager) expire(key pair, e *entry) {
	if !m.release(key, e) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	m.settle(ctx, e.offer, models.TradeExpired)
	m.notify(ctx, e.offer.ChannelID, fmt.Sprintf("The trade offer for `%s` has expired.", e.offer.CardUID))
}

func (m *Manager) settle(ctx context.Context, o Offer, status models.TradeStatus) {
	if err := m.audit.UpdateStatus(ctx, o.ID, status); err != nil {
		logger.LogError("Failed to update trade status", err, slog.String("trade_id", o.ID))
	}
	logger.LogGame("Trade settled",
		slog.String("trade_id", o.ID),
		slog.String("status", string(status)),
		slog.String("uid", o.CardUID),
	)
}

func (m *Manager) notify(ctx context.Context, channelID snowflake.ID, content string) {
	if err := m.publisher.Notify(ctx, channelID, content); err != nil {
		slog.Warn("Failed to post trade update",
			slog.String("type", "game"),
			slog.String("channel_id", channelID.String()),
			slog.Any("error", err),
		)
	}
}

// Pending lists the offers a user sent or received, oldest first.
func (m *Manager) Pending(userID snowflake.ID) []Offer {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Offer
	for key, e := range m.byPair {
		if key.sender == userID || key.recipient == userID {
			out = append(out, e.offer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// InOffer reports whether the card is held by a pending offer.
func (m *Manager) InOffer(uid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byCard[strings.ToUpper(strings.TrimSpace(uid))]
	return ok
}

// Close cancels every expiry timer. Offers still pending are left for the stale sweep.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, e := range m.byPair {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
