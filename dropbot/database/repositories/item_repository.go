package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

type ItemRepository interface {
	GetUserItems(ctx context.Context, userID string) ([]*models.UserItem, error)
	GetQuantity(ctx context.Context, userID, itemID string) (int, error)
	AddUserItem(ctx context.Context, userID, itemID string, quantity int) error
	// ConsumeItem spends one unit in its own transaction. It reports false when none is left.
	ConsumeItem(ctx context.Context, userID, itemID string) (bool, error)
}

type itemRepository struct {
	*BaseRepository
}

func NewItemRepository(db *bun.DB) ItemRepository {
	return &itemRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *itemRepository) GetUserItems(ctx context.Context, userID string) ([]*models.UserItem, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var items []*models.UserItem
	err := r.db.NewSelect().
		Model(&items).
		Where("user_id = ?", userID).
		Where("quantity > 0").
		Order("item_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_user_items", "user_items", userID, err)
	}
	return items, nil
}

func (r *itemRepository) GetQuantity(ctx context.Context, userID, itemID string) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var item models.UserItem
	err := r.db.NewSelect().
		Model(&item).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, r.HandleErrorWithID("get_quantity", "user_items", itemID, err)
	}
	return item.Quantity, nil
}

func (r *itemRepository) AddUserItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	return r.HandleErrorWithID("add_user_item", "user_items", itemID, addItemTx(ctx, r.db, userID, itemID, quantity))
}

func (r *itemRepository) ConsumeItem(ctx context.Context, userID, itemID string) (bool, error) {
	var consumed bool
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		consumed, err = consumeItemTx(ctx, tx, userID, itemID)
		return err
	})
	if err != nil {
		return false, r.HandleErrorWithID("consume_item", "user_items", itemID, err)
	}
	return consumed, nil
}

func addItemTx(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) error {
	item := &models.UserItem{UserID: userID, ItemID: itemID, Quantity: quantity}
	_, err := db.NewInsert().
		Model(item).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("quantity = ui.quantity + EXCLUDED.quantity").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

// consumeItemTx is the single place a bypass item is spent. Both the drop path and the claim
// transaction go through it so a unit can never be spent twice.
func consumeItemTx(ctx context.Context, db bun.IDB, userID, itemID string) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.UserItem)(nil)).
		Set("quantity = quantity - 1").
		Set("updated_at = current_timestamp").
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Where("quantity > 0").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
