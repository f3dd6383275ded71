package repositories

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/database"
	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("dropbot"),
		postgres.WithUsername("dropbot"),
		postgres.WithPassword("dropbot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}

	ctx := context.Background()
	db, err := database.New(ctx, database.DBConfig{URL: testDBConnString})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.InitializeSchema(ctx))
	_, err = db.ExecWithLog(ctx, `TRUNCATE TABLE owned_cards, edition_counters, user_items, trades, wishlists, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func claimReq(userID, name string) ClaimRequest {
	return ClaimRequest{UserID: userID, Name: name, Group: "Lumina", Variant: "base", Rarity: "Common", Points: 1}
}

func TestCollectionRepository_ClaimRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	ctx := context.Background()

	first, err := repo.Claim(ctx, claimReq("100", "Aria"))
	require.NoError(t, err)
	assert.Equal(t, "ARIA00101", first.Card.UID)
	assert.Equal(t, 1, first.Card.Sequence)
	assert.Equal(t, 1, first.Card.Edition)
	assert.EqualValues(t, 1, first.TotalPoints)
	assert.False(t, first.BypassUsed)

	second, err := repo.Claim(ctx, claimReq("100", "Aria"))
	require.NoError(t, err)
	assert.Equal(t, "ARIA00202", second.Card.UID)

	stored, err := repo.GetByUID(ctx, "aria00101")
	require.NoError(t, err)
	assert.Equal(t, "100", stored.UserID)
	assert.Equal(t, "Aria", stored.Name)

	count, err := repo.CountByUser(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	issued, err := repo.IssuedCount(ctx, "Aria", "Common", "base")
	require.NoError(t, err)
	assert.Equal(t, 2, issued)

	issued, err = repo.IssuedCount(ctx, "Aria", "Mythic", "base")
	require.NoError(t, err)
	assert.Zero(t, issued)
}

func TestCollectionRepository_EditionNeverReused(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	economy := NewEconomyRepository(db.BunDB())
	ctx := context.Background()

	res, err := repo.Claim(ctx, claimReq("100", "Aria"))
	require.NoError(t, err)

	_, _, err = economy.Recycle(ctx, "100", res.Card.UID, func(string) int64 { return 10 })
	require.NoError(t, err)

	next, err := repo.Claim(ctx, claimReq("200", "Aria"))
	require.NoError(t, err)
	assert.Equal(t, 2, next.Card.Edition)
}

func TestCollectionRepository_PrefixCollision(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	ctx := context.Background()

	a, err := repo.Claim(ctx, claimReq("100", "Aria"))
	require.NoError(t, err)
	b, err := repo.Claim(ctx, claimReq("200", "Ariana"))
	require.NoError(t, err)

	assert.Equal(t, "ARIA00101", a.Card.UID)
	assert.Equal(t, "ARIA00101A", b.Card.UID)
}

func TestCollectionRepository_ClaimWithBypass(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	items := NewItemRepository(db.BunDB())
	ctx := context.Background()

	req := claimReq("100", "Aria")
	req.BypassItem = config.ItemExtraClaim

	_, err := repo.Claim(ctx, req)
	require.ErrorIs(t, err, ErrNoBypassItem)

	count, err := repo.CountByUser(ctx, "100")
	require.NoError(t, err)
	assert.Zero(t, count, "failed claim must not write a card")

	require.NoError(t, items.AddUserItem(ctx, "100", config.ItemExtraClaim, 1))

	res, err := repo.Claim(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.BypassUsed)

	qty, err := items.GetQuantity(ctx, "100", config.ItemExtraClaim)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestCollectionRepository_ConcurrentClaimsDistinctSequences(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	uids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := repo.Claim(ctx, claimReq("100", fmt.Sprintf("Card%c", 'A'+i)))
			errs[i] = err
			if err == nil {
				uids[i] = res.Card.UID
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[uids[i]])
		seen[uids[i]] = true
	}

	cards, err := repo.ListByUser(ctx, "100", 20, 0)
	require.NoError(t, err)
	sequences := map[int]bool{}
	for _, c := range cards {
		sequences[c.Sequence] = true
	}
	assert.Len(t, sequences, n)
}

func TestCollectionRepository_TransferAndTag(t *testing.T) {
	db := setupDB(t)
	repo := NewCollectionRepository(db.BunDB())
	ctx := context.Background()

	res, err := repo.Claim(ctx, claimReq("100", "Aria"))
	require.NoError(t, err)
	require.NoError(t, repo.SetTag(ctx, "100", res.Card.UID, "fav"))

	err = repo.SetTag(ctx, "200", res.Card.UID, "mine")
	assert.True(t, IsNotFound(err))

	_, err = repo.TransferCard(ctx, res.Card.UID, "200", "300")
	assert.ErrorIs(t, err, ErrNotCardOwner)

	moved, err := repo.TransferCard(ctx, res.Card.UID, "100", "200")
	require.NoError(t, err)
	assert.Equal(t, "200", moved.UserID)
	assert.Empty(t, moved.Tag)

	_, err = repo.GetByUID(ctx, "NOPE00101")
	assert.True(t, IsNotFound(err))
}

func TestEconomyRepository(t *testing.T) {
	db := setupDB(t)
	economy := NewEconomyRepository(db.BunDB())
	items := NewItemRepository(db.BunDB())
	cards := NewCollectionRepository(db.BunDB())
	ctx := context.Background()
	now := time.Now()

	balance, err := economy.ClaimDaily(ctx, "100", 100, 24*time.Hour, now)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance)

	_, err = economy.ClaimDaily(ctx, "100", 100, 24*time.Hour, now.Add(time.Hour))
	var cooldownErr *DailyCooldownError
	require.True(t, errors.As(err, &cooldownErr))

	_, err = economy.Purchase(ctx, "100", config.ItemExtraDrop, 100, 2)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err = economy.Purchase(ctx, "100", config.ItemExtraClaim, 75, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 25, balance)

	owned, err := items.GetUserItems(ctx, "100")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 1, owned[0].Quantity)

	balance, err = economy.Transfer(ctx, "100", "200", 20)
	require.NoError(t, err)
	assert.EqualValues(t, 5, balance)

	_, err = economy.Transfer(ctx, "100", "200", 20)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = economy.Transfer(ctx, "100", "100", 1)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	other, err := economy.Balance(ctx, "200")
	require.NoError(t, err)
	assert.EqualValues(t, 20, other)

	res, err := cards.Claim(ctx, claimReq("200", "Bora"))
	require.NoError(t, err)

	_, _, err = economy.CustomizeUID(ctx, "200", res.Card.UID, "STAR", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, _, err = economy.CustomizeUID(ctx, "100", res.Card.UID, "STAR", 0)
	assert.ErrorIs(t, err, ErrNotCardOwner)

	renamed, balance, err := economy.CustomizeUID(ctx, "200", res.Card.UID, "STAR", 10)
	require.NoError(t, err)
	assert.Equal(t, "STAR", renamed.UID)
	assert.EqualValues(t, 10, balance)

	again, err := cards.Claim(ctx, claimReq("200", "Chae"))
	require.NoError(t, err)
	_, _, err = economy.CustomizeUID(ctx, "200", again.Card.UID, "STAR", 0)
	assert.True(t, IsConflict(err))

	recycled, balance, err := economy.Recycle(ctx, "200", "star", func(rarity string) int64 {
		assert.Equal(t, "Common", rarity)
		return 10
	})
	require.NoError(t, err)
	assert.Equal(t, "STAR", recycled.UID)
	assert.EqualValues(t, 20, balance)

	_, _, err = economy.Recycle(ctx, "200", "STAR", func(string) int64 { return 10 })
	assert.True(t, IsNotFound(err))
}

func TestUserRepository_Rank(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db.BunDB())
	cards := NewCollectionRepository(db.BunDB())
	ctx := context.Background()

	for _, c := range []struct {
		user   string
		points int
	}{{"100", 5}, {"200", 10}, {"300", 1}} {
		req := claimReq(c.user, "Aria")
		req.Points = c.points
		_, err := cards.Claim(ctx, req)
		require.NoError(t, err)
	}

	top, err := users.GetTopByPoints(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "200", top[0].UserID)

	rank, points, err := users.GetRank(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
	assert.EqualValues(t, 5, points)

	total, err := users.CountRanked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	ahead, err := users.CountAhead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, ahead)

	_, _, err = users.GetRank(ctx, "999")
	assert.True(t, IsNotFound(err))

	require.NoError(t, users.SetCollectionEmoji(ctx, "100", "🌸"))
	u, err := users.GetByID(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "🌸", u.CollectionEmoji)
}

func TestWishlistAndTrades(t *testing.T) {
	db := setupDB(t)
	wishlist := NewWishlistRepository(db.BunDB())
	trades := NewTradeRepository(db.BunDB())
	ctx := context.Background()

	require.NoError(t, wishlist.Add(ctx, "100", "Aria"))
	assert.True(t, IsConflict(wishlist.Add(ctx, "100", "Aria")))
	require.NoError(t, wishlist.Add(ctx, "200", "Bora"))

	wishers, err := wishlist.FindWishers(ctx, []string{"Ariana", "Chae"})
	require.NoError(t, err)
	require.Len(t, wishers, 1)
	assert.Equal(t, "100", wishers[0].UserID)

	removed, err := wishlist.Remove(ctx, "100", "aria")
	require.NoError(t, err)
	assert.True(t, removed)

	now := time.Now()
	require.NoError(t, trades.Create(ctx, &models.Trade{
		TradeID: "t-1", OffererID: "100", TargetID: "200", CardUID: "ARIA00101",
		Status: models.TradePending, ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, trades.Create(ctx, &models.Trade{
		TradeID: "t-2", OffererID: "100", TargetID: "200", CardUID: "ARIA00202",
		Status: models.TradePending, ExpiresAt: now.Add(time.Minute),
	}))

	expired, err := trades.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	require.NoError(t, trades.UpdateStatus(ctx, "t-2", models.TradeAccepted))
	require.NoError(t, trades.UpdateStatus(ctx, "t-2", models.TradeDeclined))

	list, err := trades.ListByUser(ctx, "200", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	statuses := map[string]models.TradeStatus{}
	for _, tr := range list {
		statuses[tr.TradeID] = tr.Status
	}
	assert.Equal(t, models.TradeExpired, statuses["t-1"])
	assert.Equal(t, models.TradeAccepted, statuses["t-2"])
}
