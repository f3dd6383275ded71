package economy

import (
	"context"
	"fmt"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Customize = discord.SlashCommandCreate{
	Name:        "customize",
	Description: "Give one of your cards a custom UID",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "uid",
			Description: "Current UID of the card",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "new_uid",
			Description: "Letters and digits, up to 10 characters",
			Required:    true,
			MaxLength:   &[]int{10}[0],
		},
	},
}

func CustomizeHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		card, balance, err := b.Bank.CustomizeUID(ctx, e.User().ID.String(), data.String("uid"), data.String("new_uid"))
		if err != nil {
			return dropbot.RespondError(e, "customize", err)
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("**%s** is now `%s`. Paid %s, %s left.",
			card.Name, card.UID, utils.FormatCurrency(b.Bank.CustomizeCost()), utils.FormatCurrency(balance)))
	}
}
