package cards

import (
	"context"
	"fmt"
	"math"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

var Collection = discord.SlashCommandCreate{
	Name:        "collection",
	Description: "Browse a photocard collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Whose collection to view",
			Required:    false,
		},
	},
}

func CollectionHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		owner := e.User()
		if u, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			owner = u
		}
		ownerID := owner.ID.String()

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		total, err := b.CollectionRepository.CountByUser(ctx, ownerID)
		if err != nil {
			return dropbot.RespondError(e, "collection", err)
		}
		if total == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%s has no cards yet. Catch one from a /drop!", utils.Mention(owner.ID)))
		}

		emoji := ""
		if user, err := b.UserRepository.GetByID(ctx, ownerID); err == nil {
			emoji = user.CollectionEmoji
		} else if !repositories.IsNotFound(err) {
			return dropbot.RespondError(e, "collection", err)
		}

		title := collectionTitle(owner.Username, emoji)
		totalPages := int(math.Ceil(float64(total) / float64(config.CardsPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
				defer cancel()

				description := "Failed to load this page."
				cards, err := b.CollectionRepository.ListByUser(ctx, ownerID, config.CardsPerPage, page*config.CardsPerPage)
				if err != nil {
					logger.LogError("Failed to load collection page", err)
				} else {
					description = collectionPage(cards)
				}

				embed.
					SetTitle(title).
					SetDescription(description).
					SetColor(config.EmbedDefaultColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, total), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
