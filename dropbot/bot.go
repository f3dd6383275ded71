package dropbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/database"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/economy/bank"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/leaderboard"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/handlers"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/auradrop/dropbot/dropbot/services"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB            *database.DB
	SpacesService *services.SpacesService
	Catalog       *catalog.Catalog

	UserRepository       repositories.UserRepository
	CollectionRepository repositories.CollectionRepository
	ItemRepository       repositories.ItemRepository
	EconomyRepository    repositories.EconomyRepository
	TradeRepository      repositories.TradeRepository
	WishlistRepository   repositories.WishlistRepository

	Cooldowns   *cooldown.Tracker
	Bank        *bank.Bank
	Leaderboard *leaderboard.Board
	Drops       *drop.Manager
	Trades      *trade.Manager
	Reactions   *handlers.ReactionHandler
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentGuildMessageReactions,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// ImageURL resolves a card image reference, through Spaces when configured.
func (b *Bot) ImageURL(ref string) string {
	if b.SpacesService == nil {
		return ref
	}
	return b.SpacesService.ImageURL(ref)
}

func (b *Bot) OnReady(_ *events.Ready) {
	logger.LogSystem("Drop bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("photocards drop"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		logger.LogError("Failed to set presence", err)
	}

	if b.Cfg.Bot.Greeting == "" {
		return
	}
	if _, err := b.Client.Rest().CreateMessage(b.Cfg.Bot.DropChannel, discord.MessageCreate{Content: b.Cfg.Bot.Greeting}); err != nil {
		logger.LogError("Failed to greet drop channel", err)
	}
}

// OnReactionAdd forwards gateway reactions to the game.
func (b *Bot) OnReactionAdd(e *events.GuildMessageReactionAdd) {
	if b.Reactions == nil {
		return
	}
	b.Reactions.OnGuildReactionAdd(e)
}
