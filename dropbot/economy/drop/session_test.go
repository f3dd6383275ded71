package drop

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/auradrop/dropbot/dropbot/cardid"
	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dropChannel = snowflake.ID(100)
	dropMessage = snowflake.ID(500)
	dropper     = snowflake.ID(1)
	alice       = snowflake.ID(2)
	bob         = snowflake.ID(3)
	carol       = snowflake.ID(4)
	botUser     = snowflake.ID(99)
)

var (
	t0      = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	symbols = []string{"1️⃣", "2️⃣", "3️⃣"}
)

type fakeItems struct {
	mu  sync.Mutex
	qty map[string]int
	err error
}

func newFakeItems() *fakeItems {
	return &fakeItems{qty: make(map[string]int)}
}

func (f *fakeItems) set(userID snowflake.ID, item string, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qty[userID.String()+"/"+item] = qty
}

func (f *fakeItems) get(userID snowflake.ID, item string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qty[userID.String()+"/"+item]
}

func (f *fakeItems) GetQuantity(_ context.Context, userID, itemID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.qty[userID+"/"+itemID], nil
}

func (f *fakeItems) ConsumeItem(_ context.Context, userID, itemID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	key := userID + "/" + itemID
	if f.qty[key] <= 0 {
		return false, nil
	}
	f.qty[key]--
	return true, nil
}

func (f *fakeItems) AddUserItem(_ context.Context, userID, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qty[userID+"/"+itemID] += quantity
	return nil
}

// fakeClaims mimics the claim transaction: per user sequence, per template edition.
type fakeClaims struct {
	mu       sync.Mutex
	items    *fakeItems
	seq      map[string]int
	editions map[string]int
	points   map[string]int64
	rows     []*models.OwnedCard
	err      error
}

func newFakeClaims(items *fakeItems) *fakeClaims {
	return &fakeClaims{
		items:    items,
		seq:      make(map[string]int),
		editions: make(map[string]int),
		points:   make(map[string]int64),
	}
}

func (f *fakeClaims) Claim(ctx context.Context, req repositories.ClaimRequest) (*repositories.ClaimResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if req.BypassItem != "" {
		ok, err := f.items.ConsumeItem(ctx, req.UserID, req.BypassItem)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, repositories.ErrNoBypassItem
		}
	}

	f.seq[req.UserID]++
	key := req.Name + "|" + req.Rarity + "|" + req.Variant
	f.editions[key]++
	f.points[req.UserID] += int64(req.Points)

	card := &models.OwnedCard{
		UID:      cardid.Synthesize(req.Name, f.seq[req.UserID], f.editions[key]),
		UserID:   req.UserID,
		Name:     req.Name,
		Variant:  req.Variant,
		Rarity:   req.Rarity,
		Edition:  f.editions[key],
		Sequence: f.seq[req.UserID],
	}
	f.rows = append(f.rows, card)
	return &repositories.ClaimResult{Card: card, TotalPoints: f.points[req.UserID], BypassUsed: req.BypassItem != ""}, nil
}

func (f *fakeClaims) owned() []*models.OwnedCard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.OwnedCard(nil), f.rows...)
}

type whisper struct {
	userID  snowflake.ID
	content string
}

type fakePublisher struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	announced []Announcement
	claims    []ClaimNotice
	whispers  []whisper
	notices   []string
	failDrop  error
}

func (p *fakePublisher) AnnounceDrop(_ context.Context, a Announcement) (snowflake.ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDrop != nil {
		return 0, p.failDrop
	}
	p.announced = append(p.announced, a)
	p.nextID++
	return dropMessage + p.nextID, nil
}

func (p *fakePublisher) AddReactions(context.Context, snowflake.ID, snowflake.ID, []string) error {
	return nil
}

func (p *fakePublisher) AnnounceClaim(_ context.Context, n ClaimNotice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.claims = append(p.claims, n)
	return nil
}

func (p *fakePublisher) Notify(_ context.Context, _ snowflake.ID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, content)
	return nil
}

func (p *fakePublisher) Whisper(_ context.Context, userID snowflake.ID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.whispers = append(p.whispers, whisper{userID: userID, content: content})
	return nil
}

func (p *fakePublisher) claimNotices() []ClaimNotice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ClaimNotice(nil), p.claims...)
}

func (p *fakePublisher) whispersTo(userID snowflake.ID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, w := range p.whispers {
		if w.userID == userID {
			out = append(out, w.content)
		}
	}
	return out
}

type fixture struct {
	manager   *Manager
	cooldowns *cooldown.Tracker
	items     *fakeItems
	claims    *fakeClaims
	publisher *fakePublisher
}

func newFixture(t *testing.T, cards []catalog.Card, table rarity.Table) *fixture {
	t.Helper()

	cat, err := catalog.New(cards, rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)
	assigner, err := rarity.NewAssigner(table, nil, rand.New(rand.NewPCG(3, 5)))
	require.NoError(t, err)

	items := newFakeItems()
	f := &fixture{
		cooldowns: cooldown.NewTracker(map[cooldown.Action]time.Duration{
			cooldown.ActionDrop:  10 * time.Minute,
			cooldown.ActionClaim: 5 * time.Minute,
		}),
		items:     items,
		claims:    newFakeClaims(items),
		publisher: &fakePublisher{},
	}
	f.manager, err = NewManager(Settings{
		ChannelID:      dropChannel,
		Symbols:        symbols,
		PriorityWindow: 10 * time.Second,
		Timeout:        time.Minute,
		FightWindow:    3 * time.Second,
	}, Deps{
		Cooldowns: f.cooldowns,
		Catalog:   cat,
		Rarity:    assigner,
		Cards:     f.claims,
		Items:     items,
		Publisher: f.publisher,
	})
	require.NoError(t, err)
	f.manager.now = func() time.Time { return t0 }
	return f
}

func defaultCards() []catalog.Card {
	return []catalog.Card{
		{Name: "Aria", Group: "Group X"},
		{Name: "Bora", Group: "Group X"},
		{Name: "Chae", Group: "Group Y"},
	}
}

// session builds a session directly, without publishing or starting its goroutine.
func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	picked := f.manager.deps.Catalog.Pick(len(symbols))
	cards := make([]DroppedCard, len(picked))
	for i, c := range picked {
		tier, err := f.manager.deps.Rarity.Assign(context.Background(), c.Name, c.Variant)
		require.NoError(t, err)
		cards[i] = DroppedCard{Card: c, Tier: tier, Symbol: symbols[i]}
	}
	return newSession(dropMessage, dropChannel, dropper, t0, cards, config.SessionEventBuffer)
}

func (f *fixture) react(s *Session, userID snowflake.ID, symbol string, after time.Duration) Verdict {
	return f.manager.process(context.Background(), s, ReactionEvent{
		MessageID: s.MessageID,
		UserID:    userID,
		Symbol:    symbol,
		At:        t0.Add(after),
	})
}

func TestProcess_SingleTemplateEditions(t *testing.T) {
	f := newFixture(t, []catalog.Card{{Name: "Aria", Group: "Group X"}}, rarity.Table{{Name: "Common", Weight: 100, Points: 1}})
	s := f.session(t)

	for _, c := range s.Cards() {
		assert.Equal(t, "Aria", c.Card.Name)
		assert.Equal(t, "Common", c.Tier.Name)
	}

	assert.Equal(t, VerdictClaimed, f.react(s, alice, symbols[0], 11*time.Second))
	assert.Equal(t, VerdictClaimed, f.react(s, bob, symbols[1], 12*time.Second))
	assert.Equal(t, VerdictClaimed, f.react(s, carol, symbols[2], 13*time.Second))
	assert.True(t, s.complete())

	rows := f.claims.owned()
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Edition)
	}
	assert.Equal(t, "ARIA00101", rows[0].UID)
	assert.Equal(t, "ARIA00102", rows[1].UID)
	assert.Equal(t, "ARIA00103", rows[2].UID)
}

func TestProcess_PriorityWindow(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)

	assert.Equal(t, VerdictIgnored, f.react(s, alice, symbols[0], 5*time.Second))
	assert.Empty(t, s.challengers[symbols[0]], "ignored reactions are not challenges")
	ready, _ := f.cooldowns.IsReady(alice, cooldown.ActionClaim, t0.Add(6*time.Second))
	assert.True(t, ready, "ignored reactions do not start a cooldown")

	assert.Equal(t, VerdictClaimed, f.react(s, dropper, symbols[0], 6*time.Second))
	assert.Equal(t, VerdictClaimed, f.react(s, alice, symbols[1], 10*time.Second))
	assert.Empty(t, f.publisher.whispersTo(alice))
}

func TestProcess_IgnoresBotsAndForeignSymbols(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)

	v := f.manager.process(context.Background(), s, ReactionEvent{UserID: botUser, Symbol: symbols[0], IsBot: true, At: t0.Add(time.Minute)})
	assert.Equal(t, VerdictIgnored, v)
	assert.Equal(t, VerdictIgnored, f.react(s, alice, "🔥", time.Minute))
	assert.Empty(t, f.claims.owned())
}

func TestProcess_OnePerUserAndSymbol(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)

	require.Equal(t, VerdictClaimed, f.react(s, alice, symbols[0], 11*time.Second))

	// already claiming put alice on cooldown; give her a bypass so the per-session rule is what stops her
	f.items.set(alice, config.ItemExtraClaim, 1)
	assert.Equal(t, VerdictAlreadyClaimed, f.react(s, alice, symbols[1], 12*time.Second))
	assert.Equal(t, 1, f.items.get(alice, config.ItemExtraClaim), "rejected claims keep the bypass item")

	assert.Equal(t, VerdictOutOfStock, f.react(s, bob, symbols[0], 13*time.Second))
	assert.Contains(t, f.publisher.whispersTo(bob), msgOutOfStock)

	// duplicate delivery of the winning event
	assert.Equal(t, VerdictAlreadyClaimed, f.react(s, alice, symbols[0], 11*time.Second))
	assert.Len(t, f.claims.owned(), 1)
	assert.Equal(t, map[string]snowflake.ID{symbols[0]: alice}, s.Claims())
}

func TestProcess_CooldownWithoutBypass(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)
	f.cooldowns.Record(alice, cooldown.ActionClaim, t0.Add(-time.Minute))

	assert.Equal(t, VerdictCooldown, f.react(s, alice, symbols[0], 30*time.Second))
	assert.Equal(t, []string{"You can claim again in 3m 30s."}, f.publisher.whispersTo(alice))
	assert.Empty(t, s.Claims())
	assert.Equal(t, []snowflake.ID{alice}, s.challengers[symbols[0]])
}

func TestProcess_ClaimBypass(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)
	stamped := t0.Add(-time.Minute)
	f.cooldowns.Record(alice, cooldown.ActionClaim, stamped)
	f.items.set(alice, config.ItemExtraClaim, 1)

	assert.Equal(t, VerdictClaimed, f.react(s, alice, symbols[0], 30*time.Second))
	assert.Equal(t, 0, f.items.get(alice, config.ItemExtraClaim))

	_, remaining := f.cooldowns.IsReady(alice, cooldown.ActionClaim, t0.Add(30*time.Second))
	assert.Equal(t, 5*time.Minute-time.Minute-30*time.Second, remaining, "bypassed claims keep the old stamp")

	n := s.takeDue(t0, true)
	require.Len(t, n, 1)
	assert.True(t, n[0].BypassUsed)
}

func TestProcess_BypassSpentElsewhere(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)
	f.cooldowns.Record(alice, cooldown.ActionClaim, t0)
	f.items.set(alice, config.ItemExtraClaim, 1)

	// another session spends it between the check and the write
	f.claims.items = newFakeItems()

	assert.Equal(t, VerdictCooldown, f.react(s, alice, symbols[0], 15*time.Second))
	assert.Empty(t, s.Claims())
}

func TestProcess_StoreFailureLeavesSymbolOpen(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)

	f.claims.err = errors.New("connection refused")
	assert.Equal(t, VerdictFailed, f.react(s, alice, symbols[0], 11*time.Second))
	assert.Contains(t, f.publisher.whispersTo(alice), msgClaimFailed)
	ready, _ := f.cooldowns.IsReady(alice, cooldown.ActionClaim, t0.Add(12*time.Second))
	assert.True(t, ready)

	f.claims.err = nil
	assert.Equal(t, VerdictClaimed, f.react(s, bob, symbols[0], 12*time.Second))
	assert.Equal(t, VerdictClaimed, f.react(s, alice, symbols[1], 13*time.Second))
}

func TestProcess_FoughtOff(t *testing.T) {
	f := newFixture(t, defaultCards(), rarity.DefaultTable())
	s := f.session(t)

	require.Equal(t, VerdictClaimed, f.react(s, alice, symbols[0], 11*time.Second))
	require.Equal(t, VerdictOutOfStock, f.react(s, bob, symbols[0], 11500*time.Millisecond))

	assert.Empty(t, s.takeDue(t0.Add(12*time.Second), false), "fight window still open")

	due := s.takeDue(t0.Add(14*time.Second), false)
	require.Len(t, due, 1)
	assert.Equal(t, alice, due[0].WinnerID)
	assert.Equal(t, []snowflake.ID{bob}, due[0].FoughtOff)
	assert.Empty(t, s.pending)
}

func TestProcess_RandomStreamsNeverDoubleAward(t *testing.T) {
	users := []snowflake.ID{dropper, alice, bob, carol, 5, 6}
	for seed := uint64(0); seed < 25; seed++ {
		f := newFixture(t, defaultCards(), rarity.DefaultTable())
		s := f.session(t)
		rng := rand.New(rand.NewPCG(seed, 42))

		for i := 0; i < 60; i++ {
			user := users[rng.IntN(len(users))]
			if rng.IntN(4) == 0 {
				f.items.set(user, config.ItemExtraClaim, 1)
			}
			f.react(s, user, symbols[rng.IntN(len(symbols))], time.Duration(rng.IntN(40))*time.Second)
		}

		winners := make(map[snowflake.ID]int)
		for _, user := range s.Claims() {
			winners[user]++
		}
		for user, n := range winners {
			assert.Equal(t, 1, n, "seed %d: user %d won %d cards", seed, user, n)
		}
		assert.Len(t, f.claims.owned(), len(s.Claims()), "seed %d", seed)
	}
}
