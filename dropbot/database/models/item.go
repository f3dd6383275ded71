package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserItem struct {
	bun.BaseModel `bun:"table:user_items,alias:ui"`

	UserID    string    `bun:"user_id,pk"`
	ItemID    string    `bun:"item_id,pk"`
	Quantity  int       `bun:"quantity,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
