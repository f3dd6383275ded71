package system

import (
	"strings"
	"testing"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/commands/cards"
	"github.com/auradrop/dropbot/dropbot/commands/economy"
	"github.com/auradrop/dropbot/dropbot/commands/game"
	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	got := rules(dropbot.DefaultConfig().Game)
	assert.Contains(t, got, "1️⃣ 2️⃣ 3️⃣")
	assert.Contains(t, got, "first 10s to pick")
	assert.Contains(t, got, "Drops cool down for 10m 0s and claims for 5m 0s")
}

func TestHelpFieldsCoverCommands(t *testing.T) {
	var all strings.Builder
	for _, f := range helpFields() {
		all.WriteString(f.Value)
	}

	for _, group := range [][]string{names(game.Commands), names(economy.Commands), names(cards.Commands)} {
		for _, name := range group {
			assert.Contains(t, all.String(), "`/"+name, name)
		}
	}
}

func names(cmds []discord.ApplicationCommandCreate) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.CommandName())
	}
	return out
}
