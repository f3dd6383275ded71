package game

import (
	"context"
	"fmt"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Trade = discord.SlashCommandCreate{
	Name:        "trade",
	Description: "Give a card to another collector",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "offer",
			Description: "Offer one of your cards to someone",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Who should receive the card",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "uid",
					Description: "UID of the card to give",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "pending",
			Description: "List your open offers",
		},
	},
}

func TradeHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}

		switch *data.SubCommandName {
		case "offer":
			return handleOffer(b, e)
		case "pending":
			offers := b.Trades.Pending(e.User().ID)
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "Pending Trades",
					Description: pendingList(offers, e.User().ID),
					Color:       config.TradeColor,
				}},
				Flags: discord.MessageFlagEphemeral,
			})
		default:
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}
	}
}

func handleOffer(b *dropbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	recipient := data.User("user")
	if recipient.Bot {
		return utils.EH.CreateUserError(e, "Bots don't collect photocards.")
	}

	if err := e.DeferCreateMessage(true); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	offer, err := b.Trades.Propose(ctx, e.User().ID, recipient.ID, e.ChannelID(), data.String("uid"))
	if err != nil {
		return dropbot.RespondDeferredError(e, "trade", err)
	}

	return utils.EH.UpdateSuccess(e, fmt.Sprintf("Offered `%s` to %s. The offer expires %s.",
		offer.CardUID, utils.Mention(offer.RecipientID), utils.RelativeTime(offer.ExpiresAt)))
}
