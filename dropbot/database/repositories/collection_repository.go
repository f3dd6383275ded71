package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot/cardid"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

const (
	maxUIDSuffixAttempts = 26
	maxClaimAttempts     = 3
)

// ClaimRequest describes one card being written into a collection.
type ClaimRequest struct {
	UserID  string
	Name    string
	Group   string
	Variant string
	Image   string
	Rarity  string
	Points  int
	// BypassItem is spent inside the same transaction when set.
	BypassItem string
}

type ClaimResult struct {
	Card        *models.OwnedCard
	TotalPoints int64
	BypassUsed  bool
}

type CollectionRepository interface {
	Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error)
	IssuedCount(ctx context.Context, name, rarity, variant string) (int, error)
	GetByUID(ctx context.Context, uid string) (*models.OwnedCard, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.OwnedCard, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	SetTag(ctx context.Context, userID, uid, tag string) error
	TransferCard(ctx context.Context, uid, fromID, toID string) (*models.OwnedCard, error)
}

type collectionRepository struct {
	*BaseRepository
}

func NewCollectionRepository(db *bun.DB) CollectionRepository {
	return &collectionRepository{BaseRepository: NewBaseRepository(db)}
}

// Claim issues a card in one transaction: the user's sequence is bumped under the row lock,
// the template's edition counter is bumped, the UID is synthesized and disambiguated, the
// bypass item is spent and tier points are added. A lost race on the UID index is retried.
func (r *collectionRepository) Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ClaimQueryTimeout)
	defer cancel()

	var (
		result *ClaimResult
		err    error
	)
	for attempt := 1; attempt <= maxClaimAttempts; attempt++ {
		result, err = r.claimOnce(ctx, req)
		if err == nil || !isUniqueViolation(err) {
			break
		}
		slog.Warn("UID collision during claim, retrying",
			slog.String("type", "db"),
			slog.String("user_id", req.UserID),
			slog.String("card", req.Name),
			slog.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, r.HandleErrorWithID("claim", "owned_cards", req.Name, err)
	}
	return result, nil
}

func (r *collectionRepository) claimOnce(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	result := &ClaimResult{}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUser(ctx, tx, req.UserID); err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		if req.BypassItem != "" {
			ok, err := consumeItemTx(ctx, tx, req.UserID, req.BypassItem)
			if err != nil {
				return fmt.Errorf("failed to consume %s: %w", req.BypassItem, err)
			}
			if !ok {
				return ErrNoBypassItem
			}
			result.BypassUsed = true
		}

		var sequence int
		err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("card_sequence = card_sequence + 1").
			Set("points = points + ?", req.Points).
			Set("updated_at = current_timestamp").
			Where("user_id = ?", req.UserID).
			Returning("card_sequence, points").
			Scan(ctx, &sequence, &result.TotalPoints)
		if err != nil {
			return fmt.Errorf("failed to bump sequence: %w", err)
		}

		var edition int
		err = tx.NewRaw(`INSERT INTO edition_counters (name, rarity, variant, last_edition) VALUES (?, ?, ?, 1)
			ON CONFLICT (name, rarity, variant) DO UPDATE SET last_edition = edition_counters.last_edition + 1
			RETURNING last_edition`, req.Name, req.Rarity, req.Variant).
			Scan(ctx, &edition)
		if err != nil {
			return fmt.Errorf("failed to bump edition: %w", err)
		}

		uid, err := freeUID(ctx, tx, cardid.Synthesize(req.Name, sequence, edition))
		if err != nil {
			return err
		}

		card := &models.OwnedCard{
			UID:        uid,
			UserID:     req.UserID,
			Name:       req.Name,
			GroupName:  req.Group,
			Variant:    req.Variant,
			Rarity:     req.Rarity,
			Edition:    edition,
			Sequence:   sequence,
			Image:      req.Image,
			ObtainedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(card).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
		result.Card = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// freeUID returns base, or base with the first alphabetic suffix not already taken.
func freeUID(ctx context.Context, db bun.IDB, base string) (string, error) {
	uid := base
	for attempt := 1; attempt <= maxUIDSuffixAttempts+1; attempt++ {
		exists, err := db.NewSelect().
			Model((*models.OwnedCard)(nil)).
			Where("upper(uid) = ?", strings.ToUpper(uid)).
			Exists(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to check uid: %w", err)
		}
		if !exists {
			return uid, nil
		}
		uid = cardid.WithSuffix(base, attempt)
	}
	return "", fmt.Errorf("no free uid for %s", base)
}

func (r *collectionRepository) IssuedCount(ctx context.Context, name, rarity, variant string) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var counter models.EditionCounter
	err := r.db.NewSelect().
		Model(&counter).
		Where("name = ? AND rarity = ? AND variant = ?", name, rarity, variant).
		Scan(ctx)
	if err != nil {
		err = r.HandleErrorWithID("issued_count", "edition_counters", name, err)
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return counter.LastEdition, nil
}

func (r *collectionRepository) GetByUID(ctx context.Context, uid string) (*models.OwnedCard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.OwnedCard)
	err := r.db.NewSelect().
		Model(card).
		Where("upper(uid) = ?", strings.ToUpper(strings.TrimSpace(uid))).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_by_uid", "card", uid, err)
	}
	return card, nil
}

func (r *collectionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.OwnedCard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var cards []*models.OwnedCard
	err := r.db.NewSelect().
		Model(&cards).
		Where("user_id = ?", userID).
		Order("obtained_at DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list_by_user", "owned_cards", userID, err)
	}
	return cards, nil
}

func (r *collectionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.OwnedCard)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("count_by_user", "owned_cards", userID, err)
	}
	return count, nil
}

func (r *collectionRepository) SetTag(ctx context.Context, userID, uid, tag string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.OwnedCard)(nil)).
		Set("tag = ?", tag).
		Where("upper(uid) = ?", strings.ToUpper(uid)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("set_tag", "card", uid, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "card", ID: uid}
	}
	return nil
}

// TransferCard moves a card between owners after re-checking ownership under a row lock.
// The card's tag is cleared and its obtained time reset.
func (r *collectionRepository) TransferCard(ctx context.Context, uid, fromID, toID string) (*models.OwnedCard, error) {
	if fromID == toID {
		return nil, ErrSelfTransfer
	}
	card := new(models.OwnedCard)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(card).
			Where("upper(uid) = ?", strings.ToUpper(uid)).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		if card.UserID != fromID {
			return ErrNotCardOwner
		}
		if err := ensureUser(ctx, tx, toID); err != nil {
			return err
		}

		card.UserID = toID
		card.Tag = ""
		card.ObtainedAt = time.Now()
		_, err = tx.NewUpdate().
			Model(card).
			Column("user_id", "tag", "obtained_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotCardOwner) {
			return nil, err
		}
		return nil, r.HandleErrorWithID("transfer_card", "card", uid, err)
	}
	return card, nil
}
