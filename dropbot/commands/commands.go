package commands

import (
	"github.com/auradrop/dropbot/dropbot/commands/cards"
	"github.com/auradrop/dropbot/dropbot/commands/economy"
	"github.com/auradrop/dropbot/dropbot/commands/game"
	"github.com/auradrop/dropbot/dropbot/commands/system"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, game.Commands...)
	Commands = append(Commands, economy.Commands...)
	Commands = append(Commands, cards.Commands...)
	Commands = append(Commands, system.Commands...)
}
