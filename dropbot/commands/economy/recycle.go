package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Recycle = discord.SlashCommandCreate{
	Name:        "recycle",
	Description: "♻️ Turn a card back into aura",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "uid",
			Description: "UID of the card to recycle",
			Required:    true,
		},
	},
}

func RecycleHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		uid := strings.ToUpper(strings.TrimSpace(e.SlashCommandInteractionData().String("uid")))

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		card, err := b.CollectionRepository.GetByUID(ctx, uid)
		if err != nil {
			return dropbot.RespondError(e, "recycle", err)
		}
		if card.UserID != e.User().ID.String() {
			return utils.EH.CreateClassifiedError(e, utils.PermissionError, "You don't own that card.")
		}

		refund := b.Bank.RefundFor(card.Rarity)
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "♻️ Recycle?",
				Description: fmt.Sprintf("Recycle **%s** `%s` #%d (%s) for **%s**?\nThis can't be undone.",
					card.Name, card.UID, card.Edition, card.Rarity, utils.FormatCurrency(refund)),
				Color:     config.WarningColor,
				Thumbnail: thumbnail(b.ImageURL(card.Image)),
				Footer:    &discord.EmbedFooter{Text: fmt.Sprintf("Expires in %s", config.RecycleConfirmTimeout)},
			}},
			Components: []discord.ContainerComponent{
				discord.NewActionRow(
					discord.NewDangerButton("Recycle", recycleCustomID("confirm", e.User().ID, card.UID)),
					discord.NewSecondaryButton("Cancel", recycleCustomID("cancel", e.User().ID, card.UID)),
				),
			},
		})
	}
}

// RecycleComponentHandler handles the confirm and cancel buttons. Only the invoking user may press them.
func RecycleComponentHandler(b *dropbot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		action, ownerID, uid, ok := parseRecycleCustomID(e.Data.CustomID())
		if !ok {
			return utils.EH.CreateEphemeralError(e, "Unknown button.")
		}
		if e.User().ID != ownerID {
			return utils.EH.CreateEphemeralError(e, "Only the card owner can do that.")
		}
		if confirmExpired(e.Message.CreatedAt, time.Now()) {
			return closeConfirmation(e, "This confirmation has expired.", config.ErrorColor)
		}
		if action == "cancel" {
			return closeConfirmation(e, "Recycling cancelled.", config.InfoColor)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		card, balance, err := b.Bank.Recycle(ctx, ownerID.String(), uid)
		if err != nil {
			msg, ok := dropbot.UserFacing(err)
			if !ok {
				msg = "Something went wrong. Please try again later."
			}
			return closeConfirmation(e, msg, config.ErrorColor)
		}
		return closeConfirmation(e, fmt.Sprintf("Recycled **%s** `%s`. Your balance is now %s.",
			card.Name, card.UID, utils.FormatCurrency(balance)), config.SuccessColor)
	}
}

func closeConfirmation(e *handler.ComponentEvent, description string, color int) error {
	return e.UpdateMessage(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{{Description: description, Color: color}},
		Components: &[]discord.ContainerComponent{},
	})
}

func recycleCustomID(action string, ownerID snowflake.ID, uid string) string {
	return fmt.Sprintf("/recycle/%s/%s/%s", action, ownerID, uid)
}

func parseRecycleCustomID(customID string) (action string, ownerID snowflake.ID, uid string, ok bool) {
	parts := strings.Split(strings.TrimPrefix(customID, "/"), "/")
	if len(parts) != 4 || parts[0] != "recycle" {
		return "", 0, "", false
	}
	if parts[1] != "confirm" && parts[1] != "cancel" {
		return "", 0, "", false
	}
	id, err := snowflake.Parse(parts[2])
	if err != nil || parts[3] == "" {
		return "", 0, "", false
	}
	return parts[1], id, parts[3], true
}

func confirmExpired(created, now time.Time) bool {
	return now.Sub(created) > config.RecycleConfirmTimeout
}

func thumbnail(url string) *discord.EmbedResource {
	if url == "" {
		return nil
	}
	return &discord.EmbedResource{URL: url}
}
