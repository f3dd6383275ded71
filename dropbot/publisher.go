package dropbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Messenger is the slice of the discord REST client the publisher talks through.
type Messenger interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	AddReaction(channelID snowflake.ID, messageID snowflake.ID, emoji string, opts ...rest.RequestOpt) error
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
}

// Publisher posts drops, claims and trade offers to discord.
type Publisher struct {
	rest     Messenger
	imageURL func(ref string) string
}

var (
	_ drop.Publisher  = (*Publisher)(nil)
	_ trade.Publisher = (*Publisher)(nil)
)

// NewPublisher builds a publisher. imageURL may be nil, in which case image references are used verbatim.
func NewPublisher(rest Messenger, imageURL func(ref string) string) *Publisher {
	if imageURL == nil {
		imageURL = func(ref string) string { return ref }
	}
	return &Publisher{rest: rest, imageURL: imageURL}
}

func (p *Publisher) AnnounceDrop(ctx context.Context, a drop.Announcement) (snowflake.ID, error) {
	msg, err := p.rest.CreateMessage(a.ChannelID, p.renderDrop(a), rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to announce drop: %w", err)
	}
	return msg.ID, nil
}

func (p *Publisher) renderDrop(a drop.Announcement) discord.MessageCreate {
	embeds := make([]discord.Embed, 0, len(a.Cards))
	for _, c := range a.Cards {
		embed := discord.Embed{
			Title:       fmt.Sprintf("%s %s", c.Symbol, c.Card.Display()),
			Description: fmt.Sprintf("**%s**", c.Tier.Name),
			Color:       c.Tier.Color,
		}
		if c.Card.Variant != "" {
			embed.Footer = &discord.EmbedFooter{Text: c.Card.Variant}
		}
		if url := p.imageURL(c.Card.Image); url != "" {
			embed.Thumbnail = &discord.EmbedResource{URL: url}
		}
		embeds = append(embeds, embed)
	}
	return discord.MessageCreate{
		Content: fmt.Sprintf("🚨 %s came to drop some photocards! 🚨", utils.Mention(a.DropperID)),
		Embeds:  embeds,
	}
}

// AddReactions attaches the claim symbols in order so they line up with the embeds.
func (p *Publisher) AddReactions(ctx context.Context, channelID, messageID snowflake.ID, symbols []string) error {
	for _, symbol := range symbols {
		if err := p.rest.AddReaction(channelID, messageID, symbol, rest.WithCtx(ctx)); err != nil {
			return fmt.Errorf("failed to add reaction %s: %w", symbol, err)
		}
	}
	return nil
}

func (p *Publisher) AnnounceClaim(ctx context.Context, n drop.ClaimNotice) error {
	_, err := p.rest.CreateMessage(n.ChannelID, discord.MessageCreate{
		Content: renderClaim(n),
		MessageReference: &discord.MessageReference{
			MessageID: &n.MessageID,
			ChannelID: &n.ChannelID,
		},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to announce claim: %w", err)
	}
	return nil
}

func renderClaim(n drop.ClaimNotice) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s claimed **%s** `%s` #%d (%s)", utils.Mention(n.WinnerID), n.Card.Card.Name, n.UID, n.Edition, n.Card.Tier.Name)
	if len(n.FoughtOff) > 0 {
		mentions := make([]string, len(n.FoughtOff))
		for i, id := range n.FoughtOff {
			mentions[i] = utils.Mention(id)
		}
		fmt.Fprintf(&sb, " and fought off %s", strings.Join(mentions, ", "))
	}
	sb.WriteString("!")
	if n.BypassUsed {
		sb.WriteString(" An extra claim was used.")
	}
	fmt.Fprintf(&sb, " They now have %s points.", utils.FormatNumber(n.TotalPoints))
	return sb.String()
}

func (p *Publisher) Notify(ctx context.Context, channelID snowflake.ID, content string) error {
	if _, err := p.rest.CreateMessage(channelID, discord.MessageCreate{Content: content}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to post notice: %w", err)
	}
	return nil
}

func (p *Publisher) Whisper(ctx context.Context, userID snowflake.ID, content string) error {
	ch, err := p.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open dm channel: %w", err)
	}
	if _, err = p.rest.CreateMessage(ch.ID(), discord.MessageCreate{Content: content}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send dm: %w", err)
	}
	return nil
}

func (p *Publisher) PublishOffer(ctx context.Context, offer trade.Offer, card *models.OwnedCard) (snowflake.ID, error) {
	msg, err := p.rest.CreateMessage(offer.ChannelID, p.renderOffer(offer, card), rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to post trade offer: %w", err)
	}
	if err = p.AddReactions(ctx, offer.ChannelID, msg.ID, []string{config.AcceptEmoji, config.DeclineEmoji}); err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (p *Publisher) renderOffer(offer trade.Offer, card *models.OwnedCard) discord.MessageCreate {
	expires := offer.ExpiresAt
	embed := discord.Embed{
		Title: "Trade Offer",
		Description: fmt.Sprintf("%s offers %s **%s** `%s` #%d (%s).\nReact %s to accept or %s to decline.",
			utils.Mention(offer.SenderID), utils.Mention(offer.RecipientID),
			card.Name, card.UID, card.Edition, card.Rarity,
			config.AcceptEmoji, config.DeclineEmoji),
		Color:     config.TradeColor,
		Footer:    &discord.EmbedFooter{Text: "Offer expires"},
		Timestamp: &expires,
	}
	if url := p.imageURL(card.Image); url != "" {
		embed.Thumbnail = &discord.EmbedResource{URL: url}
	}
	return discord.MessageCreate{
		Content: utils.Mention(offer.RecipientID),
		Embeds:  []discord.Embed{embed},
	}
}
