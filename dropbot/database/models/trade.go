package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeDeclined TradeStatus = "declined"
	TradeExpired  TradeStatus = "expired"
	// TradeFailed is an accepted offer whose card changed hands before the transfer ran.
	TradeFailed TradeStatus = "failed"
)

type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID        int64       `bun:"id,pk,autoincrement"`
	TradeID   string      `bun:"trade_id,notnull,unique"`
	OffererID string      `bun:"offerer_id,notnull"`
	TargetID  string      `bun:"target_id,notnull"`
	CardUID   string      `bun:"card_uid,notnull"`
	Status    TradeStatus `bun:"status,notnull"`
	ExpiresAt time.Time   `bun:"expires_at,notnull"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time   `bun:"updated_at,notnull,default:current_timestamp"`
}
