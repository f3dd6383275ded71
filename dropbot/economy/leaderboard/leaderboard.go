package leaderboard

import (
	"context"
	"fmt"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
)

type Store interface {
	GetTopByPoints(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountRanked(ctx context.Context) (int, error)
	GetRank(ctx context.Context, userID string) (int, int64, error)
	CountAhead(ctx context.Context, points int64) (int, error)
}

type Entry struct {
	Rank   int
	UserID snowflake.ID
	Points int64
}

// Board serves leaderboard reads. Point totals written by claims are cached per user.
type Board struct {
	store  Store
	points *lru.Cache
}

func New(store Store, cacheSize int) (*Board, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard cache: %w", err)
	}
	return &Board{store: store, points: cache}, nil
}

// Record stores the user's new total after a committed claim.
func (b *Board) Record(userID snowflake.ID, total int64) {
	b.points.Add(userID, total)
}

// Points returns the user's total, from cache when possible.
func (b *Board) Points(ctx context.Context, userID snowflake.ID) (int64, error) {
	if v, ok := b.points.Get(userID); ok {
		return v.(int64), nil
	}
	_, points, err := b.store.GetRank(ctx, userID.String())
	if err != nil {
		return 0, err
	}
	b.points.Add(userID, points)
	return points, nil
}

// Rank places the user. A cached total only needs the users ahead counted; a miss loads both at once.
func (b *Board) Rank(ctx context.Context, userID snowflake.ID) (Entry, error) {
	if v, ok := b.points.Get(userID); ok {
		points := v.(int64)
		ahead, err := b.store.CountAhead(ctx, points)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Rank: ahead + 1, UserID: userID, Points: points}, nil
	}

	rank, points, err := b.store.GetRank(ctx, userID.String())
	if err != nil {
		return Entry{}, err
	}
	b.points.Add(userID, points)
	return Entry{Rank: rank, UserID: userID, Points: points}, nil
}

// Page returns one page of the ranking and the total number of ranked users.
func (b *Board) Page(ctx context.Context, page, size int) ([]Entry, int, error) {
	total, err := b.store.CountRanked(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := b.store.GetTopByPoints(ctx, size, page*size)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		id, err := snowflake.Parse(u.UserID)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Rank: page*size + i + 1, UserID: id, Points: u.Points})
		b.points.Add(id, u.Points)
	}
	return entries, total, nil
}

// Forget drops cached totals, used after bulk changes.
func (b *Board) Forget() {
	b.points.Purge()
}
