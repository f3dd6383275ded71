package game

import (
	"context"
	"fmt"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Drop = discord.SlashCommandCreate{
	Name:        "drop",
	Description: "Drop three photocards for everyone to fight over",
}

func DropHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(true); err != nil {
			return fmt.Errorf("failed to defer response: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		s, err := b.Drops.Start(ctx, e.User().ID, e.ChannelID())
		if err != nil {
			return dropbot.RespondDeferredError(e, "drop", err)
		}

		return utils.EH.UpdateSuccess(e, dropSummary(s.Cards(), cooldown.FormatRemaining(b.Cfg.Game.PriorityWindow.Duration)))
	}
}
