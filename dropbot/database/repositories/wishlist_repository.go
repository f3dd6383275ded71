package repositories

import (
	"context"

	"github.com/auradrop/dropbot/dropbot/cardid"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID, cardName string) error
	Remove(ctx context.Context, userID, cardName string) (bool, error)
	List(ctx context.Context, userID string) ([]*models.Wishlist, error)
	// FindWishers returns entries whose UID prefix matches any of the given card names.
	FindWishers(ctx context.Context, cardNames []string) ([]*models.Wishlist, error)
}

type wishlistRepository struct {
	*BaseRepository
}

func NewWishlistRepository(db *bun.DB) WishlistRepository {
	return &wishlistRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *wishlistRepository) Add(ctx context.Context, userID, cardName string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry := &models.Wishlist{
		UserID:   userID,
		CardName: cardName,
		Prefix:   cardid.Prefix(cardName),
	}
	res, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (user_id, card_name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("add", "wishlist", cardName, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ConflictError{Entity: "wishlist entry", Field: "card", Value: cardName}
	}
	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, cardName string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Wishlist)(nil)).
		Where("user_id = ?", userID).
		Where("lower(card_name) = lower(?)", cardName).
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("remove", "wishlist", cardName, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *wishlistRepository) List(ctx context.Context, userID string) ([]*models.Wishlist, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.Wishlist
	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list", "wishlist", userID, err)
	}
	return entries, nil
}

func (r *wishlistRepository) FindWishers(ctx context.Context, cardNames []string) ([]*models.Wishlist, error) {
	if len(cardNames) == 0 {
		return nil, nil
	}
	prefixes := make([]string, 0, len(cardNames))
	for _, name := range cardNames {
		prefixes = append(prefixes, cardid.Prefix(name))
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.Wishlist
	err := r.db.NewSelect().
		Model(&entries).
		Where("prefix IN (?)", bun.In(prefixes)).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("find_wishers", "wishlist", prefixes, err)
	}
	return entries, nil
}
