package dropbot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	channelID snowflake.ID
	msg       discord.MessageCreate
}

type fakeRest struct {
	nextID    snowflake.ID
	sent      []sentMessage
	reactions []string
	failReact string
	dmChannel snowflake.ID
}

func (f *fakeRest) CreateMessage(channelID snowflake.ID, m discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: m})
	return &discord.Message{ID: f.nextID, ChannelID: channelID}, nil
}

func (f *fakeRest) AddReaction(_, _ snowflake.ID, emoji string, _ ...rest.RequestOpt) error {
	if emoji == f.failReact {
		return errors.New("unknown emoji")
	}
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakeRest) CreateDMChannel(_ snowflake.ID, _ ...rest.RequestOpt) (*discord.DMChannel, error) {
	var ch discord.DMChannel
	raw, _ := json.Marshal(map[string]any{"id": f.dmChannel.String(), "type": discord.ChannelTypeDM})
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func testCards() []drop.DroppedCard {
	tiers := rarity.DefaultTable()
	return []drop.DroppedCard{
		{Card: catalog.Card{Name: "Aria", Group: "Lumen", Image: "lumen/aria.jpg"}, Tier: tiers[0], Symbol: "1️⃣"},
		{Card: catalog.Card{Name: "Bora", Variant: "Summer"}, Tier: tiers[4], Symbol: "2️⃣"},
	}
}

func TestPublisher_AnnounceDrop(t *testing.T) {
	fr := &fakeRest{nextID: 100}
	p := NewPublisher(fr, func(ref string) string { return "https://cdn.test/" + ref })

	id, err := p.AnnounceDrop(context.Background(), drop.Announcement{ChannelID: 7, DropperID: 42, Cards: testCards()})
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(101), id)

	require.Len(t, fr.sent, 1)
	m := fr.sent[0].msg
	assert.Equal(t, "🚨 <@42> came to drop some photocards! 🚨", m.Content)
	require.Len(t, m.Embeds, 2)
	assert.Equal(t, "1️⃣ Aria (Lumen)", m.Embeds[0].Title)
	assert.Equal(t, "https://cdn.test/lumen/aria.jpg", m.Embeds[0].Thumbnail.URL)
	assert.Equal(t, "**Mythic**", m.Embeds[1].Description)
	assert.Equal(t, "Summer", m.Embeds[1].Footer.Text)
}

func TestPublisher_AddReactions(t *testing.T) {
	fr := &fakeRest{}
	p := NewPublisher(fr, nil)

	require.NoError(t, p.AddReactions(context.Background(), 1, 2, []string{"1️⃣", "2️⃣", "3️⃣"}))
	assert.Equal(t, []string{"1️⃣", "2️⃣", "3️⃣"}, fr.reactions)

	fr.failReact = "2️⃣"
	assert.Error(t, p.AddReactions(context.Background(), 1, 2, []string{"1️⃣", "2️⃣"}))
}

func TestRenderClaim(t *testing.T) {
	card := testCards()[0]
	tests := []struct {
		name   string
		notice drop.ClaimNotice
		want   string
	}{
		{
			name:   "plain",
			notice: drop.ClaimNotice{WinnerID: 5, Card: card, UID: "ARIA00101", Edition: 1, TotalPoints: 1},
			want:   "<@5> claimed **Aria** `ARIA00101` #1 (Common)! They now have 1 points.",
		},
		{
			name:   "fight and bypass",
			notice: drop.ClaimNotice{WinnerID: 5, Card: card, UID: "ARIA00203", Edition: 3, TotalPoints: 1250, BypassUsed: true, FoughtOff: []snowflake.ID{6, 7}},
			want:   "<@5> claimed **Aria** `ARIA00203` #3 (Common) and fought off <@6>, <@7>! An extra claim was used. They now have 1,250 points.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderClaim(tt.notice))
		})
	}
}

func TestPublisher_AnnounceClaimReplies(t *testing.T) {
	fr := &fakeRest{}
	p := NewPublisher(fr, nil)

	require.NoError(t, p.AnnounceClaim(context.Background(), drop.ClaimNotice{ChannelID: 7, MessageID: 99, WinnerID: 5, Card: testCards()[0], UID: "ARIA00101", Edition: 1}))
	require.Len(t, fr.sent, 1)
	ref := fr.sent[0].msg.MessageReference
	require.NotNil(t, ref)
	assert.Equal(t, snowflake.ID(99), *ref.MessageID)
}

func TestPublisher_Whisper(t *testing.T) {
	fr := &fakeRest{dmChannel: 555}
	p := NewPublisher(fr, nil)

	require.NoError(t, p.Whisper(context.Background(), 5, "You can claim again in 3m 0s."))
	require.Len(t, fr.sent, 1)
	assert.Equal(t, snowflake.ID(555), fr.sent[0].channelID)
	assert.Equal(t, "You can claim again in 3m 0s.", fr.sent[0].msg.Content)
}

func TestPublisher_PublishOffer(t *testing.T) {
	fr := &fakeRest{nextID: 10}
	p := NewPublisher(fr, nil)

	offer := trade.Offer{SenderID: 1, RecipientID: 2, ChannelID: 7, CardUID: "ARIA00101", ExpiresAt: time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)}
	card := &models.OwnedCard{UID: "ARIA00101", Name: "Aria", Rarity: "Rare", Edition: 4}

	id, err := p.PublishOffer(context.Background(), offer, card)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(11), id)
	assert.Equal(t, []string{"✅", "❌"}, fr.reactions)

	m := fr.sent[0].msg
	assert.Equal(t, "<@2>", m.Content)
	assert.Contains(t, m.Embeds[0].Description, "<@1> offers <@2> **Aria** `ARIA00101` #4 (Rare).")
	assert.Equal(t, offer.ExpiresAt, *m.Embeds[0].Timestamp)
}
