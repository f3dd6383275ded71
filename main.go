package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/auradrop/dropbot/dropbot/commands"
	"github.com/auradrop/dropbot/dropbot/commands/cards"
	"github.com/auradrop/dropbot/dropbot/commands/economy"
	"github.com/auradrop/dropbot/dropbot/commands/game"
	"github.com/auradrop/dropbot/dropbot/commands/system"
	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database"
	"github.com/auradrop/dropbot/dropbot/database/repositories"
	"github.com/auradrop/dropbot/dropbot/economy/bank"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/leaderboard"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/handlers"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/auradrop/dropbot/dropbot/metrics"
	"github.com/auradrop/dropbot/dropbot/scheduler"
	"github.com/auradrop/dropbot/dropbot/services"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := dropbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandlerWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Color)))

	logger.LogSystem("Starting drop bot",
		slog.String("version", version),
		slog.String("commit", commit))

	if err = run(cfg, *shouldSyncCommands); err != nil {
		logger.LogError("Bot stopped with an error", err)
		os.Exit(-1)
	}
}

func run(cfg *dropbot.Config, syncCommands bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStart := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()
	logger.LogSystem("Database connected", slog.Duration("took", time.Since(dbStart)))

	b := dropbot.New(*cfg, version, commit)
	b.DB = db

	if cfg.Spaces.Enabled() {
		b.SpacesService, err = services.NewSpacesService(ctx,
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.CardRoot,
		)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := db.InitializeSchema(gctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		c, err := loadCatalog(gctx, cfg, b.SpacesService)
		if err != nil {
			return err
		}
		b.Catalog = c
		return nil
	})
	if err = g.Wait(); err != nil {
		return err
	}

	bunDB := db.BunDB()
	b.UserRepository = repositories.NewUserRepository(bunDB)
	b.CollectionRepository = repositories.NewCollectionRepository(bunDB)
	b.ItemRepository = repositories.NewItemRepository(bunDB)
	b.EconomyRepository = repositories.NewEconomyRepository(bunDB)
	b.TradeRepository = repositories.NewTradeRepository(bunDB)
	b.WishlistRepository = repositories.NewWishlistRepository(bunDB)

	gameCfg := cfg.Game
	b.Cooldowns = cooldown.NewTracker(map[cooldown.Action]time.Duration{
		cooldown.ActionDrop:  gameCfg.DropCooldown.Duration,
		cooldown.ActionClaim: gameCfg.ClaimCooldown.Duration,
	})
	b.Bank = bank.New(b.EconomyRepository, b.ItemRepository, bank.Settings{
		Prices: map[string]int64{
			config.ItemExtraDrop:  gameCfg.Shop.ExtraDrop,
			config.ItemExtraClaim: gameCfg.Shop.ExtraClaim,
		},
		DailyReward:   gameCfg.DailyReward,
		DailyCooldown: gameCfg.DailyCooldown.Duration,
		CustomizeCost: gameCfg.CustomizeCost,
		Rarities:      gameCfg.Rarities,
	})
	if b.Leaderboard, err = leaderboard.New(b.UserRepository, config.LeaderboardCacheSize); err != nil {
		return err
	}

	h := handler.New()
	registerCommands(h, b)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), bot.NewListenerFunc(b.OnReactionAdd)); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	publisher := dropbot.NewPublisher(b.Client.Rest(), b.ImageURL)

	assigner, err := rarity.NewAssigner(gameCfg.Rarities, b.CollectionRepository, nil)
	if err != nil {
		return err
	}
	b.Drops, err = drop.NewManager(drop.Settings{
		ChannelID:      cfg.Bot.DropChannel,
		Symbols:        gameCfg.Symbols,
		PriorityWindow: gameCfg.PriorityWindow.Duration,
		Timeout:        gameCfg.DropTimeout.Duration,
		FightWindow:    gameCfg.FightWindow.Duration,
	}, drop.Deps{
		Cooldowns: b.Cooldowns,
		Catalog:   b.Catalog,
		Rarity:    assigner,
		Cards:     b.CollectionRepository,
		Items:     b.ItemRepository,
		Publisher: publisher,
		Board:     b.Leaderboard,
		Wishers:   b.WishlistRepository,
		Observer:  metrics.DropObserver{},
	})
	if err != nil {
		return err
	}
	defer b.Drops.Close()

	b.Trades = trade.NewManager(b.CollectionRepository, b.TradeRepository, publisher, gameCfg.TradeExpiry.Duration)
	defer b.Trades.Close()
	b.Bank.SetOffers(b.Trades)

	b.Reactions = handlers.NewReactionHandler(b.Drops, b.Trades)

	sched, err := scheduler.New(scheduler.Jobs{
		Cooldowns: b.Cooldowns,
		Trades:    b.TradeRepository,
		Standings: b.Leaderboard,
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		sched.Stop(ctx)
	}()

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Addr, db)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.LogError("Failed to stop metrics server", err)
			}
		}()
	}

	if syncCommands {
		logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			logger.LogError("Failed to sync commands", err)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
	return nil
}

func registerCommands(h *handler.Mux, b *dropbot.Bot) {
	h.Command("/drop", handlers.WrapWithLogging("drop", game.DropHandler(b)))
	h.Command("/trade", handlers.WrapWithLogging("trade", game.TradeHandler(b)))

	h.Command("/balance", handlers.WrapWithLogging("balance", economy.BalanceHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", economy.DailyHandler(b)))
	h.Command("/pay", handlers.WrapWithLogging("pay", economy.PayHandler(b)))
	h.Command("/shop", handlers.WrapWithLogging("shop", economy.ShopHandler(b)))
	h.Command("/inventory", handlers.WrapWithLogging("inventory", economy.InventoryHandler(b)))
	h.Command("/recycle", handlers.WrapWithLogging("recycle", economy.RecycleHandler(b)))
	h.Component("/recycle/{action}/{owner}/{uid}", handlers.WrapComponentWithLogging("recycle", economy.RecycleComponentHandler(b)))
	h.Command("/customize", handlers.WrapWithLogging("customize", economy.CustomizeHandler(b)))

	h.Command("/collection", handlers.WrapWithLogging("collection", cards.CollectionHandler(b)))
	h.Command("/tag", handlers.WrapWithLogging("tag", cards.TagHandler(b)))
	h.Command("/emoji", handlers.WrapWithLogging("emoji", cards.EmojiHandler(b)))
	h.Command("/wishlist", handlers.WrapWithLogging("wishlist", cards.WishlistHandler(b)))
	h.Command("/rank", handlers.WrapWithLogging("rank", cards.RankHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", cards.LeaderboardHandler(b)))

	h.Command("/help", handlers.WrapWithLogging("help", system.HelpHandler(b)))
}

func loadCatalog(ctx context.Context, cfg *dropbot.Config, spaces *services.SpacesService) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case "file":
		return catalog.Load(ctx, catalog.FileSource{Path: cfg.Catalog.Path}, nil)
	case "spaces":
		if spaces == nil {
			return nil, errors.New("catalog source spaces requires the spaces section")
		}
		return catalog.Load(ctx, catalog.ObjectSource{Store: spaces, Key: cfg.Catalog.Key}, nil)
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Catalog.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.LogError("Failed to disconnect from mongo", err)
			}
		}()
		return catalog.Load(ctx, catalog.MongoSource{
			Client:     client,
			Database:   cfg.Catalog.MongoDatabase,
			Collection: cfg.Catalog.MongoCollection,
		}, nil)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
