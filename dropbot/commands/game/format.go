package game

import (
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/snowflake/v2"
)

func dropSummary(cards []drop.DroppedCard, priority string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your cards are out! You have %s to pick before anyone else can claim.\n", priority)
	for _, c := range cards {
		fmt.Fprintf(&sb, "\n%s **%s** · %s", c.Symbol, c.Card.Display(), c.Tier.Name)
	}
	return sb.String()
}

func pendingList(offers []trade.Offer, userID snowflake.ID) string {
	if len(offers) == 0 {
		return "You have no open trade offers."
	}
	var sb strings.Builder
	for _, o := range offers {
		if o.SenderID == userID {
			fmt.Fprintf(&sb, "📤 `%s` to %s, expires %s\n", o.CardUID, utils.Mention(o.RecipientID), utils.RelativeTime(o.ExpiresAt))
		} else {
			fmt.Fprintf(&sb, "📥 `%s` from %s, expires %s\n", o.CardUID, utils.Mention(o.SenderID), utils.RelativeTime(o.ExpiresAt))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
