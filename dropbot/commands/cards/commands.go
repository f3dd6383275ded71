package cards

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Collection,
	Tag,
	Emoji,
	Wishlist,
	Rank,
	Leaderboard,
}
