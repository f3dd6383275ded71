package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID          string    `bun:"user_id,pk"`
	Balance         int64     `bun:"balance,notnull,default:0"`
	Points          int64     `bun:"points,notnull,default:0"`
	CardSequence    int       `bun:"card_sequence,notnull,default:0"`
	CollectionEmoji string    `bun:"collection_emoji,notnull,default:''"`
	LastDaily       time.Time `bun:"last_daily,nullzero"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
