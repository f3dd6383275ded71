package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/xo/dburl"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	schemaVersion        = 1 // bump when schema changes
)

type DBConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string `toml:"url"`
	Host     string `toml:"host" validate:"required_without=URL"`
	Port     int    `toml:"port" validate:"required_without=URL"`
	User     string `toml:"user" validate:"required_without=URL"`
	Password string `toml:"password"`
	Database string `toml:"database" validate:"required_without=URL"`
	SSLMode  string `toml:"sslmode"`
	PoolSize int    `toml:"pool_size" validate:"gte=0"`
}

// ConnString returns a DSN pgx understands.
func (c DBConfig) ConnString() (string, error) {
	if c.URL != "" {
		u, err := dburl.Parse(c.URL)
		if err != nil {
			return "", fmt.Errorf("failed to parse database url: %w", err)
		}
		if u.UnaliasedDriver != "postgres" {
			return "", fmt.Errorf("unsupported database driver %q", u.Driver)
		}
		return u.DSN, nil
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", "5")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	connString, err := cfg.ConnString()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		if attempt == defaultMaxRetries {
			pool.Close()
			return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
		}
		slog.Warn("Database not ready, retrying",
			slog.String("type", "db"),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		time.Sleep(defaultRetryInterval)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool, cfg.SSLMode)}, nil
}

func newBunDB(pool *pgxpool.Pool, sslMode string) *bun.DB {
	if sslMode == "" {
		sslMode = "disable"
	}
	conn := pool.Config().ConnConfig
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conn.User, conn.Password),
		Host:     fmt.Sprintf("%s:%s", conn.Host, strconv.Itoa(int(conn.Port))),
		Path:     "/" + conn.Database,
		RawQuery: "sslmode=" + sslMode,
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(u.String())))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) Close() {
	if db.bunDB != nil {
		db.bunDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

// InitializeSchema creates all tables and indexes. It is safe to run on every start.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.OwnedCard)(nil),
		(*models.EditionCounter)(nil),
		(*models.UserItem)(nil),
		(*models.Trade)(nil),
		(*models.Wishlist)(nil),
	}

	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_owned_cards_uid_upper ON owned_cards (upper(uid));",
		"CREATE INDEX IF NOT EXISTS idx_owned_cards_user_id ON owned_cards(user_id, obtained_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_owned_cards_template ON owned_cards(name, rarity, variant);",
		"CREATE INDEX IF NOT EXISTS idx_users_points ON users(points DESC);",
		"CREATE INDEX IF NOT EXISTS idx_user_items_user_id ON user_items(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_trades_pending ON trades(status, expires_at) WHERE status = 'pending';",
		"CREATE INDEX IF NOT EXISTS idx_wishlists_prefix ON wishlists(prefix);",
	}
	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	return db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion))
}

func (db *DB) SchemaVersion(ctx context.Context) (string, error) {
	row := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, "schema_version")
	var v string
	if err := row.Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.ExecWithLog(ctx, `INSERT INTO app_meta(key, value) VALUES($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
