package system

import (
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "How to play",
}

type helpSection struct {
	title    string
	commands [][2]string
}

var sections = []helpSection{
	{title: "🎴 Drops", commands: [][2]string{
		{"/drop", "Drop three cards in the drop channel"},
		{"/trade offer", "Offer a card to someone"},
		{"/trade pending", "List your open offers"},
	}},
	{title: "💰 Economy", commands: [][2]string{
		{"/balance", "Check your aura"},
		{"/daily", "Collect your daily aura"},
		{"/pay", "Send aura to someone"},
		{"/shop list", "See what's for sale"},
		{"/shop buy", "Buy extra drops and claims"},
		{"/inventory", "See your items"},
		{"/recycle", "Turn a card into aura"},
		{"/customize", "Give a card a custom UID"},
	}},
	{title: "📚 Collection", commands: [][2]string{
		{"/collection", "Browse cards"},
		{"/tag", "Label a card"},
		{"/emoji", "Decorate your collection"},
		{"/wishlist", "Get pinged when cards you want drop"},
		{"/rank", "Your leaderboard position"},
		{"/leaderboard", "Top collectors"},
	}},
}

func HelpHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "How to play",
				Description: rules(b.Cfg.Game),
				Fields:      helpFields(),
				Color:       config.DropColor,
			}},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

func rules(g dropbot.GameConfig) string {
	return fmt.Sprintf("Use /drop to drop three cards, then react with %s to claim one. "+
		"The dropper gets the first %s to pick. Everyone can claim one card per drop.\n"+
		"Drops cool down for %s and claims for %s. Extra drops and claims from the shop skip the wait.",
		strings.Join(g.Symbols, " "),
		cooldown.FormatRemaining(g.PriorityWindow.Duration),
		cooldown.FormatRemaining(g.DropCooldown.Duration),
		cooldown.FormatRemaining(g.ClaimCooldown.Duration),
	)
}

func helpFields() []discord.EmbedField {
	fields := make([]discord.EmbedField, 0, len(sections))
	for _, s := range sections {
		var sb strings.Builder
		for _, c := range s.commands {
			fmt.Fprintf(&sb, "`%s` %s\n", c[0], c[1])
		}
		fields = append(fields, discord.EmbedField{Name: s.title, Value: strings.TrimRight(sb.String(), "\n")})
	}
	return fields
}
