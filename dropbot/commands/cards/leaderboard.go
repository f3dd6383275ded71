package cards

import (
	"context"
	"fmt"
	"math"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Top collectors by points",
}

func LeaderboardHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		first, total, err := b.Leaderboard.Page(ctx, 0, config.LeaderboardSize)
		if err != nil {
			return dropbot.RespondError(e, "leaderboard", err)
		}
		if total == 0 {
			return utils.EH.CreateInfoEmbed(e, "Nobody has claimed a card yet.")
		}
		totalPages := int(math.Ceil(float64(total) / float64(config.LeaderboardSize)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				entries := first
				if page > 0 {
					ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
					defer cancel()

					var err error
					if entries, _, err = b.Leaderboard.Page(ctx, page, config.LeaderboardSize); err != nil {
						logger.LogError("Failed to load leaderboard page", err)
						entries = nil
					}
				}

				embed.
					SetTitle("🏆 Leaderboard").
					SetDescription(leaderboardBody(entries)).
					SetColor(config.EmbedDefaultColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d collectors", page+1, totalPages, total), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
