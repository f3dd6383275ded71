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

const maxWishlist = 25

var Wishlist = discord.SlashCommandCreate{
	Name:        "wishlist",
	Description: "Get pinged when cards you want are dropped",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Add a card to your wishlist",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Card name",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Remove a card from your wishlist",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Card name",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show your wishlist",
		},
	},
}

func WishlistHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		userID := e.User().ID.String()

		switch *data.SubCommandName {
		case "add":
			query := data.String("name")
			card, ok := b.Catalog.Lookup(query)
			if !ok {
				return utils.EH.CreateClassifiedError(e, utils.NotFoundError, notFoundWithSuggestions(query, b.Catalog.Search(query, 3)))
			}
			entries, err := b.WishlistRepository.List(ctx, userID)
			if err != nil {
				return dropbot.RespondError(e, "wishlist_add", err)
			}
			if len(entries) >= maxWishlist {
				return utils.EH.CreateBusinessLogicError(e, fmt.Sprintf("Your wishlist is full (%d cards).", maxWishlist))
			}
			if err = b.WishlistRepository.Add(ctx, userID, card.Name); err != nil {
				if repositories.IsConflict(err) {
					return utils.EH.CreateBusinessLogicError(e, fmt.Sprintf("**%s** is already on your wishlist.", card.Name))
				}
				return dropbot.RespondError(e, "wishlist_add", err)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Added **%s** to your wishlist.", card.Display()))

		case "remove":
			name := data.String("name")
			removed, err := b.WishlistRepository.Remove(ctx, userID, name)
			if err != nil {
				return dropbot.RespondError(e, "wishlist_remove", err)
			}
			if !removed {
				return utils.EH.CreateNotFoundError(e, "Wishlist entry", name)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed **%s** from your wishlist.", name))

		case "list":
			entries, err := b.WishlistRepository.List(ctx, userID)
			if err != nil {
				return dropbot.RespondError(e, "wishlist_list", err)
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "💝 " + e.User().Username + "'s Wishlist",
					Description: wishlistBody(entries),
					Color:       config.InfoColor,
				}},
			})

		default:
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}
	}
}
