package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Wishlist struct {
	bun.BaseModel `bun:"table:wishlists,alias:w"`

	UserID   string `bun:"user_id,pk"`
	CardName string `bun:"card_name,pk"`
	// Prefix is the UID prefix of the card name, used to match drops.
	Prefix    string    `bun:"prefix,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
