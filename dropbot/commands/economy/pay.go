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

var Pay = discord.SlashCommandCreate{
	Name:        "pay",
	Description: "Send aura to another user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Who to pay",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How much aura to send",
			Required:    true,
			MinValue:    &[]int{1}[0],
		},
	},
}

func PayHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		target := data.User("user")
		amount := int64(data.Int("amount"))
		if target.Bot {
			return utils.EH.CreateUserError(e, "Bots don't need aura.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		balance, err := b.Bank.Pay(ctx, e.User().ID.String(), target.ID.String(), amount)
		if err != nil {
			return dropbot.RespondError(e, "pay", err)
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Sent **%s** to %s. You have %s left.",
			utils.FormatCurrency(amount), utils.Mention(target.ID), utils.FormatCurrency(balance)))
	}
}
