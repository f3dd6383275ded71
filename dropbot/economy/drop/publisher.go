package drop

import (
	"context"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/disgoorg/snowflake/v2"
)

//go:generate mockgen -destination=mock/publisher.go -package=mock . Publisher

// DroppedCard is one slot of a drop. It only lives as long as its session.
type DroppedCard struct {
	Card   catalog.Card
	Tier   rarity.Tier
	Symbol string
}

type Announcement struct {
	ChannelID snowflake.ID
	DropperID snowflake.ID
	Cards     []DroppedCard
}

// ClaimNotice is posted once a symbol's fight window closes.
type ClaimNotice struct {
	ChannelID   snowflake.ID
	MessageID   snowflake.ID
	WinnerID    snowflake.ID
	DropperID   snowflake.ID
	Card        DroppedCard
	UID         string
	Edition     int
	TotalPoints int64
	BypassUsed  bool
	// FoughtOff lists everyone else who reacted with the same symbol.
	FoughtOff []snowflake.ID
}

// Publisher is the chat side of a drop: everything a session says goes through it.
type Publisher interface {
	// AnnounceDrop posts the drop and returns the message the claims will react to.
	AnnounceDrop(ctx context.Context, a Announcement) (snowflake.ID, error)
	AddReactions(ctx context.Context, channelID, messageID snowflake.ID, symbols []string) error
	AnnounceClaim(ctx context.Context, n ClaimNotice) error
	// Notify posts plain text in a channel.
	Notify(ctx context.Context, channelID snowflake.ID, content string) error
	// Whisper sends a private message to one user.
	Whisper(ctx context.Context, userID snowflake.ID, content string) error
}
