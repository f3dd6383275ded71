package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot/cardid"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/auradrop/dropbot/dropbot/logger"
)

//go:generate mockgen -destination=mock/store.go -package=mock . Store

const maxPurchase = 100

var (
	ErrUnknownItem = errors.New("that item isn't sold here")
	ErrBadQuantity = fmt.Errorf("quantity must be between 1 and %d", maxPurchase)
	ErrBadAmount   = errors.New("amount must be positive")
	ErrSelfPayment = errors.New("you can't pay yourself")
	ErrSameUID     = errors.New("the card already has that UID")
	ErrCardInOffer = errors.New("that card is part of a pending trade offer")
)

// Store is the transactional side of the economy.
type Store interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Purchase(ctx context.Context, userID, itemID string, unitPrice int64, quantity int) (int64, error)
	Recycle(ctx context.Context, userID, uid string, refund func(rarity string) int64) (*models.OwnedCard, int64, error)
	ClaimDaily(ctx context.Context, userID string, reward int64, cooldown time.Duration, now time.Time) (int64, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) (int64, error)
	CustomizeUID(ctx context.Context, userID, oldUID, newUID string, cost int64) (*models.OwnedCard, int64, error)
}

type ItemReader interface {
	GetUserItems(ctx context.Context, userID string) ([]*models.UserItem, error)
}

// OfferLocks reports cards held by open trade offers.
type OfferLocks interface {
	InOffer(uid string) bool
}

type Item struct {
	ID          string
	Name        string
	Description string
	Price       int64
}

type Settings struct {
	Prices        map[string]int64
	DailyReward   int64
	DailyCooldown time.Duration
	CustomizeCost int64
	Rarities      rarity.Table
}

type Bank struct {
	store    Store
	items    ItemReader
	settings Settings
	catalog  map[string]Item
	offers   OfferLocks
	now      func() time.Time
}

func New(store Store, items ItemReader, settings Settings) *Bank {
	catalog := make(map[string]Item, len(settings.Prices))
	for id, price := range settings.Prices {
		item := describeItem(id)
		item.Price = price
		catalog[id] = item
	}
	return &Bank{
		store:    store,
		items:    items,
		settings: settings,
		catalog:  catalog,
		now:      time.Now,
	}
}

func describeItem(id string) Item {
	switch id {
	case config.ItemExtraDrop:
		return Item{ID: id, Name: "Extra Drop", Description: "Drop again while your drop is cooling down."}
	case config.ItemExtraClaim:
		return Item{ID: id, Name: "Extra Claim", Description: "Claim a card while your claim is cooling down."}
	default:
		return Item{ID: id, Name: id}
	}
}

// Shop lists the items for sale, cheapest first.
func (b *Bank) Shop() []Item {
	items := make([]Item, 0, len(b.catalog))
	for _, item := range b.catalog {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price < items[j].Price
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (b *Bank) Item(id string) (Item, bool) {
	item, ok := b.catalog[strings.ToLower(strings.TrimSpace(id))]
	return item, ok
}

func (b *Bank) Balance(ctx context.Context, userID string) (int64, error) {
	return b.store.Balance(ctx, userID)
}

// Buy charges the user for quantity items and returns the new balance.
func (b *Bank) Buy(ctx context.Context, userID, itemID string, quantity int) (int64, error) {
	item, ok := b.Item(itemID)
	if !ok {
		return 0, ErrUnknownItem
	}
	if quantity < 1 || quantity > maxPurchase {
		return 0, ErrBadQuantity
	}
	balance, err := b.store.Purchase(ctx, userID, item.ID, item.Price, quantity)
	if err != nil {
		return 0, err
	}
	logger.LogGame("Item purchased",
		slog.String("user_id", userID),
		slog.String("item", item.ID),
		slog.Int("quantity", quantity),
		slog.Int64("balance", balance),
	)
	return balance, nil
}

// RefundFor is what recycling a card of the given rarity pays out.
func (b *Bank) RefundFor(rarityName string) int64 {
	if tier, ok := b.settings.Rarities.Lookup(rarityName); ok {
		return tier.Refund
	}
	return 0
}

// Recycle destroys a card the user owns and pays its refund.
func (b *Bank) Recycle(ctx context.Context, userID, uid string) (*models.OwnedCard, int64, error) {
	if b.inOffer(uid) {
		return nil, 0, ErrCardInOffer
	}
	card, balance, err := b.store.Recycle(ctx, userID, strings.TrimSpace(uid), b.RefundFor)
	if err != nil {
		return nil, 0, err
	}
	logger.LogGame("Card recycled",
		slog.String("user_id", userID),
		slog.String("uid", card.UID),
		slog.String("rarity", card.Rarity),
		slog.Int64("refund", b.RefundFor(card.Rarity)),
	)
	return card, balance, nil
}

// SetOffers makes recycling and renaming refuse cards that sit in a pending trade.
func (b *Bank) SetOffers(offers OfferLocks) {
	b.offers = offers
}

func (b *Bank) inOffer(uid string) bool {
	return b.offers != nil && b.offers.InOffer(uid)
}

func (b *Bank) Daily(ctx context.Context, userID string) (int64, error) {
	return b.store.ClaimDaily(ctx, userID, b.settings.DailyReward, b.settings.DailyCooldown, b.now())
}

// Pay moves currency to another user and returns the payer's balance.
func (b *Bank) Pay(ctx context.Context, fromID, toID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrBadAmount
	}
	if fromID == toID {
		return 0, ErrSelfPayment
	}
	balance, err := b.store.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return 0, err
	}
	logger.LogGame("Payment sent",
		slog.String("from_id", fromID),
		slog.String("to_id", toID),
		slog.Int64("amount", amount),
	)
	return balance, nil
}

// CustomizeUID renames one of the user's cards for a fee.
func (b *Bank) CustomizeUID(ctx context.Context, userID, oldUID, newUID string) (*models.OwnedCard, int64, error) {
	normalized, err := cardid.Normalize(newUID)
	if err != nil {
		return nil, 0, err
	}
	if strings.EqualFold(strings.TrimSpace(oldUID), normalized) {
		return nil, 0, ErrSameUID
	}
	if b.inOffer(oldUID) {
		return nil, 0, ErrCardInOffer
	}
	card, balance, err := b.store.CustomizeUID(ctx, userID, strings.TrimSpace(oldUID), normalized, b.settings.CustomizeCost)
	if err != nil {
		return nil, 0, err
	}
	logger.LogGame("UID customized",
		slog.String("user_id", userID),
		slog.String("old_uid", oldUID),
		slog.String("uid", card.UID),
	)
	return card, balance, nil
}

func (b *Bank) CustomizeCost() int64 {
	return b.settings.CustomizeCost
}

// Holding is one line of a user's inventory.
type Holding struct {
	Item     Item
	Quantity int
}

// Inventory returns the user's balance and every item they hold at least one of.
func (b *Bank) Inventory(ctx context.Context, userID string) (int64, []Holding, error) {
	balance, err := b.store.Balance(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	rows, err := b.items.GetUserItems(ctx, userID)
	if err != nil {
		return 0, nil, err
	}

	var holdings []Holding
	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}
		item, ok := b.catalog[row.ItemID]
		if !ok {
			item = describeItem(row.ItemID)
		}
		holdings = append(holdings, Holding{Item: item, Quantity: row.Quantity})
	}
	return balance, holdings, nil
}

// UserMessage turns an economy error into something safe to show the user.
// ok is false for errors that should be logged and answered generically.
func UserMessage(err error) (msg string, ok bool) {
	var daily *repositories.DailyCooldownError
	switch {
	case errors.As(err, &daily):
		return fmt.Sprintf("You already collected your daily reward. Come back <t:%d:R>.", daily.Next.Unix()), true
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return fmt.Sprintf("You don't have enough %s for that.", config.CurrencyName), true
	case errors.Is(err, repositories.ErrNotCardOwner):
		return "You don't own that card.", true
	case errors.Is(err, repositories.ErrSelfTransfer), errors.Is(err, ErrSelfPayment):
		return ErrSelfPayment.Error() + ".", true
	case repositories.IsNotFound(err):
		return "Card not found.", true
	case repositories.IsConflict(err):
		return "That UID is already taken.", true
	case errors.Is(err, cardid.ErrEmpty), errors.Is(err, cardid.ErrTooLong), errors.Is(err, cardid.ErrNotAlnum),
		errors.Is(err, ErrUnknownItem), errors.Is(err, ErrBadQuantity), errors.Is(err, ErrBadAmount),
		errors.Is(err, ErrSameUID), errors.Is(err, ErrCardInOffer), errors.Is(err, repositories.ErrInvalidAmount):
		return capitalize(strings.Replace(err.Error(), "uid", "UID", 1)) + ".", true
	default:
		return "", false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
