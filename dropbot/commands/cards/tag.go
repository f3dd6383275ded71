package cards

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const maxTagLength = 20

var Tag = discord.SlashCommandCreate{
	Name:        "tag",
	Description: "Label one of your cards",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "uid",
			Description: "UID of the card",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "tag",
			Description: "Tag text, leave empty to clear",
			Required:    false,
			MaxLength:   &[]int{maxTagLength}[0],
		},
	},
}

func TagHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		uid := strings.ToUpper(strings.TrimSpace(data.String("uid")))
		tag, problem := cleanTag(data.String("tag"))
		if problem != "" {
			return utils.EH.CreateUserError(e, problem)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		if err := b.CollectionRepository.SetTag(ctx, e.User().ID.String(), uid, tag); err != nil {
			return dropbot.RespondError(e, "tag", err)
		}
		if tag == "" {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Cleared the tag on `%s`.", uid))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Tagged `%s` as **%s**.", uid, tag))
	}
}

// cleanTag collapses whitespace. problem is set when the tag can't be used.
func cleanTag(raw string) (tag string, problem string) {
	tag = strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(tag) > maxTagLength {
		return "", fmt.Sprintf("Tags must be at most %d characters.", maxTagLength)
	}
	if strings.ContainsAny(tag, "`*_~|<>@") {
		return "", "Tags may only contain plain text."
	}
	return tag, ""
}
