package cards

import (
	"context"
	"fmt"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Rank = discord.SlashCommandCreate{
	Name:        "rank",
	Description: "See where you stand on the leaderboard",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Whose rank to show",
			Required:    false,
		},
	},
}

func RankHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		target := e.User()
		if u, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = u
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		entry, err := b.Leaderboard.Rank(ctx, target.ID)
		if repositories.IsNotFound(err) || (err == nil && entry.Points == 0) {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%s hasn't earned any points yet.", utils.Mention(target.ID)))
		}
		if err != nil {
			return dropbot.RespondError(e, "rank", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🏅 " + target.Username,
				Description: fmt.Sprintf("Rank **#%d** with **%s** points.", entry.Rank, utils.FormatNumber(entry.Points)),
				Color:       config.InfoColor,
			}},
		})
	}
}
