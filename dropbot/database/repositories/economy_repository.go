package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

// DailyCooldownError is returned when the daily reward was already collected.
type DailyCooldownError struct {
	Next time.Time
}

func (e *DailyCooldownError) Error() string {
	return fmt.Sprintf("daily reward available at %s", e.Next.Format(time.RFC3339))
}

// EconomyRepository groups the currency moving transactions.
type EconomyRepository interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Purchase(ctx context.Context, userID, itemID string, unitPrice int64, quantity int) (int64, error)
	Recycle(ctx context.Context, userID, uid string, refund func(rarity string) int64) (*models.OwnedCard, int64, error)
	ClaimDaily(ctx context.Context, userID string, reward int64, cooldown time.Duration, now time.Time) (int64, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) (int64, error)
	CustomizeUID(ctx context.Context, userID, oldUID, newUID string, cost int64) (*models.OwnedCard, int64, error)
}

type economyRepository struct {
	*BaseRepository
}

func NewEconomyRepository(db *bun.DB) EconomyRepository {
	return &economyRepository{BaseRepository: NewBaseRepository(db)}
}

func lockUser(ctx context.Context, tx bun.Tx, userID string) (*models.User, error) {
	if err := ensureUser(ctx, tx, userID); err != nil {
		return nil, err
	}
	user := new(models.User)
	err := tx.NewSelect().
		Model(user).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	return user, err
}

func addBalance(ctx context.Context, tx bun.Tx, user *models.User, delta int64) error {
	user.Balance += delta
	user.UpdatedAt = time.Now()
	_, err := tx.NewUpdate().
		Model(user).
		Column("balance", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (r *economyRepository) Balance(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var balance int64
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("balance").
		Where("user_id = ?", userID).
		Scan(ctx, &balance)
	if err != nil {
		err = r.HandleErrorWithID("balance", "user", userID, err)
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

func (r *economyRepository) Purchase(ctx context.Context, userID, itemID string, unitPrice int64, quantity int) (int64, error) {
	if quantity <= 0 || unitPrice < 0 {
		return 0, ErrInvalidAmount
	}
	total := unitPrice * int64(quantity)

	var balance int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Balance < total {
			return ErrInsufficientFunds
		}
		if err := addBalance(ctx, tx, user, -total); err != nil {
			return err
		}
		if err := addItemTx(ctx, tx, userID, itemID, quantity); err != nil {
			return err
		}
		balance = user.Balance
		return nil
	})
	if err != nil {
		return 0, r.HandleErrorWithID("purchase", "user_items", itemID, err)
	}
	return balance, nil
}

func (r *economyRepository) Recycle(ctx context.Context, userID, uid string, refund func(rarity string) int64) (*models.OwnedCard, int64, error) {
	card := new(models.OwnedCard)
	var balance int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(card).
			Where("upper(uid) = ?", strings.ToUpper(uid)).
			Where("user_id = ?", userID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(card).WherePK().Exec(ctx); err != nil {
			return err
		}
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := addBalance(ctx, tx, user, refund(card.Rarity)); err != nil {
			return err
		}
		balance = user.Balance
		return nil
	})
	if err != nil {
		return nil, 0, r.HandleErrorWithID("recycle", "card", uid, err)
	}
	return card, balance, nil
}

func (r *economyRepository) ClaimDaily(ctx context.Context, userID string, reward int64, cooldown time.Duration, now time.Time) (int64, error) {
	var balance int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !user.LastDaily.IsZero() && now.Before(user.LastDaily.Add(cooldown)) {
			return &DailyCooldownError{Next: user.LastDaily.Add(cooldown)}
		}
		user.Balance += reward
		user.LastDaily = now
		user.UpdatedAt = now
		if _, err := tx.NewUpdate().
			Model(user).
			Column("balance", "last_daily", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
		balance = user.Balance
		return nil
	})
	if err != nil {
		return 0, r.HandleErrorWithID("claim_daily", "user", userID, err)
	}
	return balance, nil
}

// Transfer moves currency between two users. Rows are locked in id order to avoid deadlocks.
func (r *economyRepository) Transfer(ctx context.Context, fromID, toID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if fromID == toID {
		return 0, ErrSelfTransfer
	}

	var balance int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*models.User{}
		for _, id := range []string{first, second} {
			user, err := lockUser(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = user
		}

		from, to := locked[fromID], locked[toID]
		if from.Balance < amount {
			return ErrInsufficientFunds
		}
		if err := addBalance(ctx, tx, from, -amount); err != nil {
			return err
		}
		if err := addBalance(ctx, tx, to, amount); err != nil {
			return err
		}
		balance = from.Balance
		return nil
	})
	if err != nil {
		return 0, r.HandleErrorWithID("transfer", "user", fromID, err)
	}
	return balance, nil
}

// CustomizeUID renames a card's UID and charges the owner in one transaction.
// newUID must already be normalized.
func (r *economyRepository) CustomizeUID(ctx context.Context, userID, oldUID, newUID string, cost int64) (*models.OwnedCard, int64, error) {
	card := new(models.OwnedCard)
	var balance int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(card).
			Where("upper(uid) = ?", strings.ToUpper(oldUID)).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return ErrNotCardOwner
		}

		taken, err := tx.NewSelect().
			Model((*models.OwnedCard)(nil)).
			Where("upper(uid) = ?", strings.ToUpper(newUID)).
			Where("id != ?", card.ID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Entity: "card", Field: "uid", Value: newUID}
		}

		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Balance < cost {
			return ErrInsufficientFunds
		}
		if err := addBalance(ctx, tx, user, -cost); err != nil {
			return err
		}

		card.UID = newUID
		if _, err := tx.NewUpdate().Model(card).Column("uid").WherePK().Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Entity: "card", Field: "uid", Value: newUID}
			}
			return err
		}
		balance = user.Balance
		return nil
	})
	if err != nil {
		return nil, 0, r.HandleErrorWithID("customize_uid", "card", oldUID, err)
	}
	return card, balance, nil
}
