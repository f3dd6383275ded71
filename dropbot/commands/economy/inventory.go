package economy

import (
	"context"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Inventory = discord.SlashCommandCreate{
	Name:        "inventory",
	Description: "🎒 See your aura and bypass items",
}

func InventoryHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		balance, holdings, err := b.Bank.Inventory(ctx, e.User().ID.String())
		if err != nil {
			return dropbot.RespondError(e, "inventory", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎒 " + e.User().Username + "'s Inventory",
				Description: inventoryListing(balance, holdings),
				Color:       config.EmbedDefaultColor,
			}},
		})
	}
}
