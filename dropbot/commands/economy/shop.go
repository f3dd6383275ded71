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

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "Browse and buy cooldown bypass items",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show what's for sale",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "buy",
			Description: "Buy an item",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Item to buy",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Extra Drop", Value: config.ItemExtraDrop},
						{Name: "Extra Claim", Value: config.ItemExtraClaim},
					},
				},
				discord.ApplicationCommandOptionInt{
					Name:        "quantity",
					Description: "How many to buy (default 1)",
					Required:    false,
					MinValue:    &[]int{1}[0],
					MaxValue:    &[]int{100}[0],
				},
			},
		},
	},
}

func ShopHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}

		switch *data.SubCommandName {
		case "list":
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "🛒 Shop",
					Description: shopListing(b.Bank.Shop()),
					Color:       config.InfoColor,
					Footer:      &discord.EmbedFooter{Text: "Use /shop buy to purchase"},
				}},
			})
		case "buy":
			return handleBuy(b, e)
		default:
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}
	}
}

func handleBuy(b *dropbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	itemID := data.String("item")
	quantity, ok := data.OptInt("quantity")
	if !ok {
		quantity = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	balance, err := b.Bank.Buy(ctx, e.User().ID.String(), itemID, quantity)
	if err != nil {
		return dropbot.RespondError(e, "shop_buy", err)
	}

	item, _ := b.Bank.Item(itemID)
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Bought **%d× %s** for %s. You have %s left.",
		quantity, item.Name, utils.FormatCurrency(item.Price*int64(quantity)), utils.FormatCurrency(balance)))
}
