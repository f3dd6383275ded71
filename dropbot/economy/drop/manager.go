package drop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrWrongChannel = errors.New("drops are only allowed in the drop channel")
	ErrClosed       = errors.New("drop manager is closed")
	ErrNoSymbols    = errors.New("drop needs at least one claim symbol")
)

const (
	msgOutOfStock     = "Sorry, that card is out of stock!"
	msgAlreadyClaimed = "You already grabbed a card from this drop."
	msgClaimFailed    = "Something went wrong while claiming that card. React again to retry."
	msgWishlistDrop   = "%s a card on your wishlist just dropped!"
)

type ClaimStore interface {
	Claim(ctx context.Context, req repositories.ClaimRequest) (*repositories.ClaimResult, error)
}

// ItemStore is the consumable side of the cooldown bypass.
type ItemStore interface {
	GetQuantity(ctx context.Context, userID, itemID string) (int, error)
	ConsumeItem(ctx context.Context, userID, itemID string) (bool, error)
	AddUserItem(ctx context.Context, userID, itemID string, quantity int) error
}

type CardPicker interface {
	Pick(n int) []catalog.Card
}

type RarityAssigner interface {
	Assign(ctx context.Context, name, variant string) (rarity.Tier, error)
}

type PointsRecorder interface {
	Record(userID snowflake.ID, total int64)
}

type WishlistFinder interface {
	FindWishers(ctx context.Context, cardNames []string) ([]*models.Wishlist, error)
}

// Observer receives drop lifecycle events, usually for metrics.
type Observer interface {
	DropStarted(bypass bool)
	ReactionHandled(v Verdict)
	CardClaimed(tier string)
	SessionEnded(state State, claimed int)
}

type noopObserver struct{}

func (noopObserver) DropStarted(bool)        {}
func (noopObserver) ReactionHandled(Verdict) {}
func (noopObserver) CardClaimed(string)      {}
func (noopObserver) SessionEnded(State, int) {}

type Settings struct {
	ChannelID      snowflake.ID
	Symbols        []string
	PriorityWindow time.Duration
	// Timeout is the inactivity limit; every reaction that is not ignored restarts it.
	Timeout time.Duration
	// FightWindow delays the claim announcement so late challengers are credited.
	FightWindow time.Duration
}

type Deps struct {
	Cooldowns *cooldown.Tracker
	Catalog   CardPicker
	Rarity    RarityAssigner
	Cards     ClaimStore
	Items     ItemStore
	Publisher Publisher
	Board     PointsRecorder
	Wishers   WishlistFinder
	Observer  Observer
}

// Manager starts drops and routes reactions to their sessions. Each session runs on its own goroutine.
type Manager struct {
	settings Settings
	deps     Deps
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	sessions map[snowflake.ID]*Session
	closed   bool
}

func NewManager(settings Settings, deps Deps) (*Manager, error) {
	if len(settings.Symbols) == 0 {
		return nil, ErrNoSymbols
	}
	if deps.Observer == nil {
		deps.Observer = noopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		settings: settings,
		deps:     deps,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[snowflake.ID]*Session),
	}, nil
}

// Start validates the dropper, publishes a new drop and leaves it running in the background.
func (m *Manager) Start(ctx context.Context, dropperID, channelID snowflake.ID) (*Session, error) {
	if channelID != m.settings.ChannelID {
		return nil, ErrWrongChannel
	}
	if m.isClosed() {
		return nil, ErrClosed
	}

	now := m.now()
	bypass, err := m.takeDropBypass(ctx, dropperID, now)
	if err != nil {
		return nil, err
	}

	s, err := m.publish(ctx, dropperID, channelID, now)
	if err == nil {
		err = m.register(s)
	}
	if err == nil {
		// registered first so reactions arriving while the symbols are attached are queued
		if err = m.deps.Publisher.AddReactions(ctx, channelID, s.MessageID, m.settings.Symbols); err != nil {
			m.unregister(s)
			err = fmt.Errorf("failed to add claim reactions: %w", err)
		}
	}
	if err != nil {
		if bypass != "" {
			m.refund(ctx, dropperID, bypass)
		} else {
			m.deps.Cooldowns.Reset(dropperID, cooldown.ActionDrop)
		}
		return nil, err
	}

	m.deps.Observer.DropStarted(bypass != "")
	go m.run(s)

	logger.LogGame("Drop started",
		slog.String("message_id", s.MessageID.String()),
		slog.String("dropper_id", dropperID.String()),
		slog.Bool("bypass", bypass != ""),
		slog.String("cards", describe(s.cards)),
	)

	m.notifyWishers(ctx, s)
	return s, nil
}

// takeDropBypass stamps the drop cooldown, or spends the bypass item when the user is still cooling down.
// It returns the spent item, or "" when none was needed.
func (m *Manager) takeDropBypass(ctx context.Context, userID snowflake.ID, now time.Time) (string, error) {
	decision := m.deps.Cooldowns.TryRecord(userID, cooldown.ActionDrop, now)
	if decision.Ready {
		return "", nil
	}
	ok, err := m.deps.Items.ConsumeItem(ctx, userID.String(), decision.BypassItem)
	if err != nil {
		return "", fmt.Errorf("failed to consume %s: %w", decision.BypassItem, err)
	}
	if !ok {
		return "", &cooldown.OnCooldownError{Action: cooldown.ActionDrop, Remaining: decision.Remaining}
	}
	return decision.BypassItem, nil
}

func (m *Manager) refund(ctx context.Context, userID snowflake.ID, item string) {
	if err := m.deps.Items.AddUserItem(ctx, userID.String(), item, 1); err != nil {
		logger.LogError("Failed to refund bypass item", err,
			slog.String("user_id", userID.String()),
			slog.String("item", item),
		)
	}
}

func (m *Manager) publish(ctx context.Context, dropperID, channelID snowflake.ID, now time.Time) (*Session, error) {
	picked := m.deps.Catalog.Pick(len(m.settings.Symbols))
	if len(picked) != len(m.settings.Symbols) {
		return nil, fmt.Errorf("catalog returned %d cards, want %d", len(picked), len(m.settings.Symbols))
	}

	cards := make([]DroppedCard, len(picked))
	for i, card := range picked {
		tier, err := m.deps.Rarity.Assign(ctx, card.Name, card.Variant)
		if err != nil {
			return nil, fmt.Errorf("failed to assign rarity: %w", err)
		}
		cards[i] = DroppedCard{Card: card, Tier: tier, Symbol: m.settings.Symbols[i]}
	}

	messageID, err := m.deps.Publisher.AnnounceDrop(ctx, Announcement{
		ChannelID: channelID,
		DropperID: dropperID,
		Cards:     cards,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to announce drop: %w", err)
	}

	return newSession(messageID, channelID, dropperID, now, cards, config.SessionEventBuffer), nil
}

func (m *Manager) notifyWishers(ctx context.Context, s *Session) {
	if m.deps.Wishers == nil {
		return
	}
	names := make([]string, len(s.cards))
	for i, c := range s.cards {
		names[i] = c.Card.Name
	}
	wishes, err := m.deps.Wishers.FindWishers(ctx, names)
	if err != nil {
		logger.LogError("Failed to look up wishlists", err, slog.String("message_id", s.MessageID.String()))
		return
	}

	seen := make(map[string]bool, len(wishes))
	var mentions []string
	for _, w := range wishes {
		if seen[w.UserID] {
			continue
		}
		seen[w.UserID] = true
		mentions = append(mentions, "<@"+w.UserID+">")
	}
	if len(mentions) == 0 {
		return
	}
	if err = m.deps.Publisher.Notify(ctx, s.ChannelID, fmt.Sprintf(msgWishlistDrop, strings.Join(mentions, " "))); err != nil {
		logger.LogError("Failed to ping wishers", err, slog.String("message_id", s.MessageID.String()))
	}
}

// HandleReaction routes a reaction to its session without blocking. It reports whether the
// message belongs to a running drop.
func (m *Manager) HandleReaction(ev ReactionEvent) bool {
	m.mu.Lock()
	s, ok := m.sessions[ev.MessageID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if ev.At.IsZero() {
		ev.At = m.now()
	}

	select {
	case <-s.done:
		return false
	case <-m.ctx.Done():
		return false
	default:
	}

	// never block the gateway goroutine on a session that fell behind
	select {
	case s.events <- ev:
	default:
		m.deps.Observer.ReactionHandled(VerdictDropped)
		slog.Warn("Drop session is behind, reaction discarded",
			slog.String("type", "game"),
			slog.String("message_id", ev.MessageID.String()),
			slog.String("user_id", ev.UserID.String()),
		)
	}
	return true
}

func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every running session and waits for them to flush.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}

func (m *Manager) register(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.sessions[s.MessageID] = s
	m.wg.Add(1)
	return nil
}

// unregister undoes register for a session whose goroutine never started.
func (m *Manager) unregister(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.MessageID)
	m.mu.Unlock()
	close(s.done)
	m.wg.Done()
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Manager) run(s *Session) {
	defer m.finish(s)

	idle := time.NewTimer(m.settings.Timeout)
	defer idle.Stop()

	var (
		fight  *time.Timer
		fightC <-chan time.Time
	)
	defer func() {
		if fight != nil {
			fight.Stop()
		}
	}()
	arm := func() {
		next, ok := s.nextDue()
		if !ok || fightC != nil {
			return
		}
		wait := max(next.Sub(m.now()), 0)
		if fight == nil {
			fight = time.NewTimer(wait)
		} else {
			fight.Reset(wait)
		}
		fightC = fight.C
	}

	for {
		select {
		case <-m.ctx.Done():
			if s.state == StateActive {
				s.state = StateTimedOut
			}
			m.flush(s, true)
			return

		case ev := <-s.events:
			v := m.process(m.ctx, s, ev)
			m.deps.Observer.ReactionHandled(v)
			// ignored reactions must not keep an abandoned drop alive
			if s.state == StateActive && v != VerdictIgnored {
				idle.Reset(m.settings.Timeout)
			}
			if s.state == StateActive && s.complete() {
				s.state = StateResolved
				idle.Stop()
			}
			if m.settings.FightWindow <= 0 {
				m.flush(s, true)
			}
			arm()

		case <-fightC:
			fightC = nil
			m.flush(s, false)
			arm()

		case <-idle.C:
			if s.state == StateActive {
				s.state = StateTimedOut
			}
			m.flush(s, true)
			return
		}

		if s.state == StateResolved && len(s.pending) == 0 {
			return
		}
	}
}

func (m *Manager) finish(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.MessageID)
	m.mu.Unlock()

	m.deps.Observer.SessionEnded(s.state, len(s.claimedBy))
	logger.LogGame("Drop ended",
		slog.String("message_id", s.MessageID.String()),
		slog.String("status", s.state.String()),
		slog.Int("claimed", len(s.claimedBy)),
	)
	close(s.done)
	m.wg.Done()
}

// flush posts claim notices whose fight window has closed.
func (m *Manager) flush(s *Session, all bool) {
	ctx := m.ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
	}
	for _, n := range s.takeDue(m.now(), all) {
		if err := m.deps.Publisher.AnnounceClaim(ctx, n); err != nil {
			logger.LogError("Failed to announce claim", err,
				slog.String("uid", n.UID),
				slog.String("winner_id", n.WinnerID.String()),
			)
		}
	}
}

// process evaluates one reaction against the session. Reactions for a session are
// never processed concurrently, so the first one to pass every check wins its symbol.
func (m *Manager) process(ctx context.Context, s *Session, ev ReactionEvent) Verdict {
	idx, ok := s.bySymbol[ev.Symbol]
	if ev.IsBot || !ok {
		return VerdictIgnored
	}
	if ev.UserID != s.DropperID && ev.At.Sub(s.StartedAt) < m.settings.PriorityWindow {
		return VerdictIgnored
	}
	s.addChallenger(ev.Symbol, ev.UserID)

	userID := ev.UserID.String()

	var bypass string
	if decision := m.deps.Cooldowns.Check(ev.UserID, cooldown.ActionClaim, ev.At); !decision.Ready {
		qty, err := m.deps.Items.GetQuantity(ctx, userID, decision.BypassItem)
		if err != nil {
			logger.LogError("Failed to read bypass items", err, slog.String("user_id", userID))
			m.whisper(ctx, ev.UserID, msgClaimFailed)
			return VerdictFailed
		}
		if qty <= 0 {
			m.whisper(ctx, ev.UserID, cooldownMessage(decision.Remaining))
			return VerdictCooldown
		}
		bypass = decision.BypassItem
	}

	if _, claimed := s.claimers[ev.UserID]; claimed {
		m.whisper(ctx, ev.UserID, msgAlreadyClaimed)
		return VerdictAlreadyClaimed
	}
	if _, taken := s.claimedBy[ev.Symbol]; taken {
		m.whisper(ctx, ev.UserID, msgOutOfStock)
		return VerdictOutOfStock
	}

	slot := s.cards[idx]
	res, err := m.deps.Cards.Claim(ctx, repositories.ClaimRequest{
		UserID:     userID,
		Name:       slot.Card.Name,
		Group:      slot.Card.Group,
		Variant:    slot.Card.Variant,
		Image:      slot.Card.Image,
		Rarity:     slot.Tier.Name,
		Points:     slot.Tier.Points,
		BypassItem: bypass,
	})
	if errors.Is(err, repositories.ErrNoBypassItem) {
		_, remaining := m.deps.Cooldowns.IsReady(ev.UserID, cooldown.ActionClaim, ev.At)
		m.whisper(ctx, ev.UserID, cooldownMessage(remaining))
		return VerdictCooldown
	}
	if err != nil {
		logger.LogError("Claim failed", err,
			slog.String("user_id", userID),
			slog.String("card", slot.Card.Name),
			slog.String("message_id", s.MessageID.String()),
		)
		m.whisper(ctx, ev.UserID, msgClaimFailed)
		return VerdictFailed
	}

	s.claimedBy[ev.Symbol] = ev.UserID
	s.claimers[ev.UserID] = ev.Symbol
	if !res.BypassUsed {
		m.deps.Cooldowns.Record(ev.UserID, cooldown.ActionClaim, ev.At)
	}
	if m.deps.Board != nil {
		m.deps.Board.Record(ev.UserID, res.TotalPoints)
	}
	m.deps.Observer.CardClaimed(slot.Tier.Name)

	s.pending = append(s.pending, pendingNotice{
		notice: ClaimNotice{
			ChannelID:   s.ChannelID,
			MessageID:   s.MessageID,
			WinnerID:    ev.UserID,
			DropperID:   s.DropperID,
			Card:        slot,
			UID:         res.Card.UID,
			Edition:     res.Card.Edition,
			TotalPoints: res.TotalPoints,
			BypassUsed:  res.BypassUsed,
		},
		due: ev.At.Add(m.settings.FightWindow),
	})

	logger.LogGame("Card claimed",
		slog.String("uid", res.Card.UID),
		slog.String("user_id", userID),
		slog.String("rarity", slot.Tier.Name),
		slog.Bool("bypass", res.BypassUsed),
	)
	return VerdictClaimed
}

func (m *Manager) whisper(ctx context.Context, userID snowflake.ID, content string) {
	if err := m.deps.Publisher.Whisper(ctx, userID, content); err != nil {
		slog.Warn("Failed to whisper user",
			slog.String("type", "game"),
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
}

func cooldownMessage(remaining time.Duration) string {
	return fmt.Sprintf("You can claim again in %s.", cooldown.FormatRemaining(remaining))
}

func describe(cards []DroppedCard) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%s %s (%s)", c.Symbol, c.Card.Name, c.Tier.Name)
	}
	return strings.Join(parts, ", ")
}
