package repositories

import (
	"context"
	"time"

	"github.com/auradrop/dropbot/dropbot/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	EnsureUser(ctx context.Context, userID string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetTopByPoints(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountRanked(ctx context.Context) (int, error)
	GetRank(ctx context.Context, userID string) (int, int64, error)
	// CountAhead counts users holding more than the given points.
	CountAhead(ctx context.Context, points int64) (int, error)
	SetCollectionEmoji(ctx context.Context, userID, emoji string) error
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) EnsureUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if err := ensureUser(ctx, r.db, userID); err != nil {
		return nil, r.HandleErrorWithID("ensure_user", "user", userID, err)
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_by_id", "user", userID, err)
	}
	return user, nil
}

func (r *userRepository) GetTopByPoints(ctx context.Context, limit, offset int) ([]*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Where("points > 0").
		Order("points DESC", "user_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_top_by_points", "users", "leaderboard", err)
	}
	return users, nil
}

func (r *userRepository) CountRanked(ctx context.Context) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("points > 0").
		Count(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("count_ranked", "users", "leaderboard", err)
	}
	return count, nil
}

// GetRank returns the 1-based position of the user and their points. Ties share a rank.
func (r *userRepository) GetRank(ctx context.Context, userID string) (int, int64, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	ahead, err := r.CountAhead(ctx, user.Points)
	if err != nil {
		return 0, 0, err
	}
	return ahead + 1, user.Points, nil
}

func (r *userRepository) CountAhead(ctx context.Context, points int64) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ahead, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("points > ?", points).
		Count(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("count_ahead", "users", points, err)
	}
	return ahead, nil
}

func (r *userRepository) SetCollectionEmoji(ctx context.Context, userID, emoji string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if err := ensureUser(ctx, r.db, userID); err != nil {
		return r.HandleErrorWithID("set_collection_emoji", "user", userID, err)
	}
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("collection_emoji = ?", emoji).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Exec(ctx)
	return r.HandleErrorWithID("set_collection_emoji", "user", userID, err)
}
