package dropbot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/auradrop/dropbot/dropbot/database"
	"github.com/auradrop/dropbot/dropbot/economy/rarity"
	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	minDropTimeout = 30 * time.Second
	maxDropTimeout = 120 * time.Second
)

// LoadConfig reads the TOML file at path, applies .env and environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.String("type", "sys"), slog.Any("error", err))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db"`
	Spaces  SpacesConfig      `toml:"spaces"`
	Catalog CatalogConfig     `toml:"catalog"`
	Game    GameConfig        `toml:"game"`
	Metrics MetricsConfig     `toml:"metrics"`
}

type BotConfig struct {
	DevGuilds   []snowflake.ID `toml:"dev_guilds"`
	Token       string         `toml:"token" validate:"required"`
	DropChannel snowflake.ID   `toml:"drop_channel" validate:"required"`
	Greeting    string         `toml:"greeting"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
	Color bool       `toml:"color"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	CardRoot string `toml:"cardroot"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

type CatalogConfig struct {
	Source          string `toml:"source" validate:"oneof=file spaces mongo"`
	Path            string `toml:"path" validate:"required_if=Source file"`
	Key             string `toml:"key" validate:"required_if=Source spaces"`
	MongoURI        string `toml:"mongo_uri" validate:"required_if=Source mongo"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr" validate:"required_if=Enabled true"`
}

type ShopConfig struct {
	ExtraDrop  int64 `toml:"extra_drop" validate:"gt=0"`
	ExtraClaim int64 `toml:"extra_claim" validate:"gt=0"`
}

type GameConfig struct {
	DropCooldown   Duration     `toml:"drop_cooldown"`
	ClaimCooldown  Duration     `toml:"claim_cooldown"`
	PriorityWindow Duration     `toml:"priority_window"`
	DropTimeout    Duration     `toml:"drop_timeout"`
	FightWindow    Duration     `toml:"fight_window"`
	TradeExpiry    Duration     `toml:"trade_expiry"`
	DailyCooldown  Duration     `toml:"daily_cooldown"`
	Symbols        []string     `toml:"symbols" validate:"len=3,unique,dive,required"`
	DailyReward    int64        `toml:"daily_reward" validate:"gt=0"`
	CustomizeCost  int64        `toml:"customize_cost" validate:"gte=0"`
	Shop           ShopConfig   `toml:"shop"`
	Rarities       rarity.Table `toml:"rarity" validate:"dive"`
}

// Duration decodes TOML strings such as "10m" or "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo, Color: true},
		Bot: BotConfig{
			Greeting: "Yo, the photocard bot is here! Let's party!!",
		},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "dropbot",
			SSLMode:  "disable",
			PoolSize: 10,
		},
		Catalog: CatalogConfig{
			Source:          "file",
			Path:            "cards.json",
			MongoDatabase:   "dropbot",
			MongoCollection: "cards",
		},
		Game: GameConfig{
			DropCooldown:   Duration{10 * time.Minute},
			ClaimCooldown:  Duration{5 * time.Minute},
			PriorityWindow: Duration{10 * time.Second},
			DropTimeout:    Duration{60 * time.Second},
			FightWindow:    Duration{3 * time.Second},
			TradeExpiry:    Duration{5 * time.Minute},
			DailyCooldown:  Duration{24 * time.Hour},
			Symbols:        []string{"1️⃣", "2️⃣", "3️⃣"},
			DailyReward:    100,
			CustomizeCost:  500,
			Shop:           ShopConfig{ExtraDrop: 100, ExtraClaim: 75},
			Rarities:       rarity.DefaultTable(),
		},
		Metrics: MetricsConfig{Addr: ":9090"},
	}
}

func (c *Config) applyEnv() error {
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		c.Bot.Token = token
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DB.URL = url
	}
	if raw := os.Getenv("DROP_CHANNEL_ID"); raw != "" {
		id, err := snowflake.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid DROP_CHANNEL_ID: %w", err)
		}
		c.Bot.DropChannel = id
	}
	return nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	if err := c.Game.Rarities.Validate(); err != nil {
		return err
	}

	g := c.Game
	if g.DropTimeout.Duration < minDropTimeout || g.DropTimeout.Duration > maxDropTimeout {
		return fmt.Errorf("drop_timeout must be between %s and %s, got %s", minDropTimeout, maxDropTimeout, g.DropTimeout)
	}
	for name, d := range map[string]Duration{
		"drop_cooldown":   g.DropCooldown,
		"claim_cooldown":  g.ClaimCooldown,
		"priority_window": g.PriorityWindow,
		"fight_window":    g.FightWindow,
		"trade_expiry":    g.TradeExpiry,
		"daily_cooldown":  g.DailyCooldown,
	} {
		if d.Duration < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if g.TradeExpiry.Duration == 0 {
		return errors.New("trade_expiry must be positive")
	}
	if c.Catalog.Source == "spaces" && !c.Spaces.Enabled() {
		return errors.New("catalog source spaces requires the spaces section")
	}
	return nil
}
