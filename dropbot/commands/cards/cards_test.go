package cards

import (
	"testing"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/economy/leaderboard"
	"github.com/stretchr/testify/assert"
)

func TestCollectionPage(t *testing.T) {
	got := collectionPage([]*models.OwnedCard{
		{UID: "ARIA00101", Name: "Aria", Edition: 1, Rarity: "Common"},
		{UID: "MINE", Name: "Bora", Edition: 7, Rarity: "Mythic", Tag: "fav"},
	})
	assert.Equal(t, "`ARIA00101` **Aria** #1 · Common\n`MINE` **Bora** #7 · Mythic · 🏷️ fav", got)
	assert.Equal(t, "Nothing on this page.", collectionPage(nil))
}

func TestCollectionTitle(t *testing.T) {
	assert.Equal(t, "mina's Collection", collectionTitle("mina", ""))
	assert.Equal(t, "🌸 mina's Collection", collectionTitle("mina", "🌸"))
}

func TestLeaderboardBody(t *testing.T) {
	got := leaderboardBody([]leaderboard.Entry{
		{Rank: 1, UserID: 10, Points: 1500},
		{Rank: 4, UserID: 11, Points: 3},
	})
	assert.Equal(t, "🥇 <@10> · **1,500** pts\n`#4` <@11> · **3** pts", got)
}

func TestNotFoundWithSuggestions(t *testing.T) {
	assert.Equal(t, "No card named `arai` found.", notFoundWithSuggestions("arai", nil))
	assert.Equal(t, "No card named `ari` found. Did you mean **Aria**, **Arin**?",
		notFoundWithSuggestions("ari", []catalog.Card{{Name: "Aria"}, {Name: "Arin"}}))
}

func TestWishlistBody(t *testing.T) {
	assert.Contains(t, wishlistBody(nil), "empty")
	assert.Equal(t, "1. Aria\n2. Bora", wishlistBody([]*models.Wishlist{{CardName: "Aria"}, {CardName: "Bora"}}))
}

func TestCleanTag(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		problem bool
	}{
		{raw: "  summer   fav ", want: "summer fav"},
		{raw: "", want: ""},
		{raw: "this tag is far too long to fit", problem: true},
		{raw: "<@123>", problem: true},
	}
	for _, tt := range tests {
		got, problem := cleanTag(tt.raw)
		assert.Equal(t, tt.problem, problem != "", tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestValidEmoji(t *testing.T) {
	assert.True(t, validEmoji(""))
	assert.True(t, validEmoji("🌸"))
	assert.True(t, validEmoji("👩‍🎤"))
	assert.False(t, validEmoji("abc"))
	assert.False(t, validEmoji("<:custom:123>"))
}
