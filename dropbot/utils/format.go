package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber groups digits with commas: 1234567 -> 1,234,567.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatCurrency renders an amount with the currency name, e.g. "1,200 aura".
func FormatCurrency(n int64) string {
	return FormatNumber(n) + " " + config.CurrencyName
}

// Mention renders a user mention for a raw discord ID.
func Mention(id fmt.Stringer) string {
	return "<@" + id.String() + ">"
}

// RelativeTime renders a discord timestamp like "in 5 minutes".
func RelativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
