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

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "Claim your daily aura",
}

func DailyHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		balance, err := b.Bank.Daily(ctx, e.User().ID.String())
		if err != nil {
			return dropbot.RespondError(e, "daily", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "Daily Reward Claimed!",
				Description: fmt.Sprintf("You received **%s**. Your balance is now %s.",
					utils.FormatCurrency(b.Cfg.Game.DailyReward), utils.FormatCurrency(balance)),
				Color: config.SuccessColor,
			}},
		})
	}
}
