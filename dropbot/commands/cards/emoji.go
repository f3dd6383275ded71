package cards

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const maxEmojiLength = 8

var Emoji = discord.SlashCommandCreate{
	Name:        "emoji",
	Description: "Pick the emoji shown on your collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "emoji",
			Description: "A unicode emoji, leave empty to clear",
			Required:    false,
		},
	},
}

func EmojiHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		emoji := strings.TrimSpace(e.SlashCommandInteractionData().String("emoji"))
		if !validEmoji(emoji) {
			return utils.EH.CreateUserError(e, "Please provide a single unicode emoji.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		if err := b.UserRepository.SetCollectionEmoji(ctx, e.User().ID.String(), emoji); err != nil {
			return dropbot.RespondError(e, "emoji", err)
		}
		if emoji == "" {
			return utils.EH.CreateSuccessEmbed(e, "Cleared your collection emoji.")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Your collection is now marked with %s.", emoji))
	}
}

// validEmoji accepts empty input or a short run of non-ASCII runes, which covers
// unicode emoji including joined sequences.
func validEmoji(s string) bool {
	if s == "" {
		return true
	}
	if utf8.RuneCountInString(s) > maxEmojiLength {
		return false
	}
	for _, r := range s {
		if r < 0x80 {
			return false
		}
	}
	return true
}
