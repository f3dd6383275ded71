package economy

import (
	"testing"
	"time"

	"github.com/auradrop/dropbot/dropbot/economy/bank"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestRecycleCustomID(t *testing.T) {
	id := recycleCustomID("confirm", 1234, "ARIA00101")
	assert.Equal(t, "/recycle/confirm/1234/ARIA00101", id)

	action, owner, uid, ok := parseRecycleCustomID(id)
	assert.True(t, ok)
	assert.Equal(t, "confirm", action)
	assert.Equal(t, snowflake.ID(1234), owner)
	assert.Equal(t, "ARIA00101", uid)

	for _, bad := range []string{"/recycle/confirm/1234", "/recycle/burn/1/ARIA", "/trade/confirm/1/ARIA", "/recycle/cancel/abc/ARIA"} {
		_, _, _, ok := parseRecycleCustomID(bad)
		assert.False(t, ok, bad)
	}
}

func TestConfirmExpired(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, confirmExpired(created, created.Add(29*time.Second)))
	assert.True(t, confirmExpired(created, created.Add(31*time.Second)))
}

func TestShopListing(t *testing.T) {
	assert.Equal(t, "The shop is empty right now.", shopListing(nil))

	got := shopListing([]bank.Item{{ID: "extra_claim", Name: "Extra Claim", Description: "Claim while cooling down.", Price: 75}})
	assert.Equal(t, "**Extra Claim** · 75 aura\nClaim while cooling down.\n`extra_claim`", got)
}

func TestInventoryListing(t *testing.T) {
	assert.Equal(t, "💰 **1,200 aura**\n\nNo items yet. Check out /shop list.", inventoryListing(1200, nil))

	got := inventoryListing(5, []bank.Holding{
		{Item: bank.Item{Name: "Extra Drop"}, Quantity: 2},
		{Item: bank.Item{Name: "Extra Claim"}, Quantity: 1},
	})
	assert.Equal(t, "💰 **5 aura**\n\nExtra Drop × 2\nExtra Claim × 1", got)
}
