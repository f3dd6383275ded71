package economy

import (
	"context"
	"time"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your aura balance and points",
}

func BalanceHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		balance, err := b.Bank.Balance(ctx, e.User().ID.String())
		if err != nil {
			return dropbot.RespondError(e, "balance", err)
		}

		description := "You have **" + utils.FormatCurrency(balance) + "**."
		if points, err := b.Leaderboard.Points(ctx, e.User().ID); err == nil {
			description += "\nLeaderboard points: **" + utils.FormatNumber(points) + "**"
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Balance",
				Description: description,
				Color:       config.SuccessColor,
				Footer:      &discord.EmbedFooter{Text: "Requested by " + e.User().Username},
				Timestamp:   &now,
			}},
		})
	}
}
