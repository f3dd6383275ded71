package cards

import (
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/economy/leaderboard"
	"github.com/auradrop/dropbot/dropbot/utils"
)

func collectionTitle(username, emoji string) string {
	if emoji == "" {
		return username + "'s Collection"
	}
	return emoji + " " + username + "'s Collection"
}

func collectionPage(cards []*models.OwnedCard) string {
	if len(cards) == 0 {
		return "Nothing on this page."
	}
	var sb strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&sb, "`%s` **%s** #%d · %s", c.UID, c.Name, c.Edition, c.Rarity)
		if c.Tag != "" {
			fmt.Fprintf(&sb, " · 🏷️ %s", c.Tag)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func leaderboardBody(entries []leaderboard.Entry) string {
	if len(entries) == 0 {
		return "Failed to load this page."
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s · **%s** pts\n", medal(e.Rank), utils.Mention(e.UserID), utils.FormatNumber(e.Points))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("`#%d`", rank)
	}
}

func notFoundWithSuggestions(query string, suggestions []catalog.Card) string {
	msg := fmt.Sprintf("No card named `%s` found.", query)
	if len(suggestions) == 0 {
		return msg
	}
	names := make([]string, len(suggestions))
	for i, c := range suggestions {
		names[i] = "**" + c.Name + "**"
	}
	return msg + " Did you mean " + strings.Join(names, ", ") + "?"
}

func wishlistBody(entries []*models.Wishlist) string {
	if len(entries) == 0 {
		return "Your wishlist is empty. Add cards with /wishlist add."
	}
	var sb strings.Builder
	for i, w := range entries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, w.CardName)
	}
	return strings.TrimRight(sb.String(), "\n")
}
