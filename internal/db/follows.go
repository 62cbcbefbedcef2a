package db

import (
	"context"
	"time"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
)

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Follow creates a directed follow edge. Self-follows are rejected before
// the write; a duplicate edge or a missing user surfaces as a translated
// constraint violation.
func (r *FollowRepository) Follow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return apperr.InvalidArgument("a user cannot follow themselves")
	}

	edge := models.Follower{
		UserID:     userID,
		FollowsID:  targetID,
		FollowedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		return apperr.FromStore(err, "follow")
	}
	return nil
}

// Unfollow removes a follow edge
func (r *FollowRepository) Unfollow(ctx context.Context, userID, targetID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND follows_id = ?", userID, targetID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return apperr.FromStore(res.Error, "follow")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("follow edge not found")
	}
	return nil
}

// IsFollowing reports whether userID follows targetID
func (r *FollowRepository) IsFollowing(ctx context.Context, userID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ? AND follows_id = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return false, apperr.FromStore(err, "follow")
	}
	return count > 0, nil
}

// ListFollowers returns the users following the given user
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN followers ON followers.user_id = users.id").
		Where("followers.follows_id = ?", userID).
		Order("followers.followed_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.FromStore(err, "follower")
	}
	return users, nil
}

// ListFollowing returns the users the given user follows
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN followers ON followers.follows_id = users.id").
		Where("followers.user_id = ?", userID).
		Order("followers.followed_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.FromStore(err, "follower")
	}
	return users, nil
}
