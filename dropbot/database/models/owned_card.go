package models

import (
	"time"

	"github.com/uptrace/bun"
)

// OwnedCard is one claimed copy of a catalog card.
type OwnedCard struct {
	bun.BaseModel `bun:"table:owned_cards,alias:oc"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UID        string    `bun:"uid,notnull,unique"`
	UserID     string    `bun:"user_id,notnull"`
	Name       string    `bun:"name,notnull"`
	GroupName  string    `bun:"group_name,notnull,default:''"`
	Variant    string    `bun:"variant,notnull"`
	Rarity     string    `bun:"rarity,notnull"`
	Edition    int       `bun:"edition,notnull"`
	Sequence   int       `bun:"sequence,notnull"`
	Image      string    `bun:"image,notnull,default:''"`
	Tag        string    `bun:"tag,notnull,default:''"`
	ObtainedAt time.Time `bun:"obtained_at,notnull,default:current_timestamp"`
}

// EditionCounter remembers the last edition issued per template and tier so editions never repeat.
type EditionCounter struct {
	bun.BaseModel `bun:"table:edition_counters,alias:ec"`

	Name        string `bun:"name,pk"`
	Rarity      string `bun:"rarity,pk"`
	Variant     string `bun:"variant,pk"`
	LastEdition int    `bun:"last_edition,notnull,default:0"`
}
