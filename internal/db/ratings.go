package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
	"github.com/gamingrealm/backend/pkg/telemetry"
)

// RatingRepository provides rating database operations
type RatingRepository struct {
	*Repository
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(repo *Repository) *RatingRepository {
	return &RatingRepository{Repository: repo}
}

// Rate creates or overwrites the single rating for a (post, author) pair.
// The write is one conditional insert-or-update keyed on the composite
// primary key, so concurrent ratings from the same author cannot produce
// two rows or a lost update.
func (r *RatingRepository) Rate(ctx context.Context, postID, authorID string, value int) error {
	ctx, span := telemetry.StartSpan(ctx, "db.ratings.rate")
	defer span.End()

	rating := models.PostRating{
		PostID:    postID,
		AuthorID:  authorID,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "author_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return apperr.FromStore(err, "post")
	}
	return nil
}

// Get retrieves the rating one author gave one post
func (r *RatingRepository) Get(ctx context.Context, postID, authorID string) (*models.PostRating, error) {
	var rating models.PostRating
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		First(&rating).Error
	if err != nil {
		return nil, apperr.FromStore(err, "rating")
	}
	return &rating, nil
}
