package economy

import (
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot/economy/bank"
	"github.com/auradrop/dropbot/dropbot/utils"
)

func shopListing(items []bank.Item) string {
	if len(items) == 0 {
		return "The shop is empty right now."
	}
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "**%s** · %s\n%s\n`%s`\n\n", item.Name, utils.FormatCurrency(item.Price), item.Description, item.ID)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func inventoryListing(balance int64, holdings []bank.Holding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 **%s**\n", utils.FormatCurrency(balance))
	if len(holdings) == 0 {
		sb.WriteString("\nNo items yet. Check out /shop list.")
		return sb.String()
	}
	for _, h := range holdings {
		fmt.Fprintf(&sb, "\n%s × %d", h.Item.Name, h.Quantity)
	}
	return sb.String()
}
