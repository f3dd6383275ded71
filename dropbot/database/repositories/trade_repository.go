package repositories

import (
	"context"
	"time"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

// TradeRepository keeps an audit trail of trade offers. Pending offers themselves live in memory.
type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	UpdateStatus(ctx context.Context, tradeID string, status models.TradeStatus) error
	ExpireStale(ctx context.Context, now time.Time) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Trade, error)
}

type tradeRepository struct {
	*BaseRepository
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *tradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(trade).Exec(ctx)
	return r.HandleErrorWithID("create", "trade", trade.TradeID, err)
}

// UpdateStatus only moves trades out of pending. Settled trades are left untouched.
func (r *tradeRepository) UpdateStatus(ctx context.Context, tradeID string, status models.TradeStatus) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.Trade)(nil)).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("trade_id = ?", tradeID).
		Where("status = ?", models.TradePending).
		Exec(ctx)
	return r.HandleErrorWithID("update_status", "trade", tradeID, err)
}

// ExpireStale marks pending trades past their deadline as expired, including any left over
// from a previous process.
func (r *tradeRepository) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.Trade)(nil)).
		Set("status = ?", models.TradeExpired).
		Set("updated_at = current_timestamp").
		Where("status = ?", models.TradePending).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("expire_stale", "trades", "pending", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *tradeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Trade, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("offerer_id = ?", userID).WhereOr("target_id = ?", userID)
		}).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list_by_user", "trades", userID, err)
	}
	return trades, nil
}
