package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
)

// TagRepository provides tag database operations
type TagRepository struct {
	*Repository
}

// NewTagRepository creates a new tag repository
func NewTagRepository(repo *Repository) *TagRepository {
	return &TagRepository{Repository: repo}
}

// ensureTags creates any missing Tag rows for the given names (exact,
// case-sensitive match) and attaches them to the post. Re-attaching an
// existing tag is a no-op, so the whole operation is idempotent.
func ensureTags(tx *gorm.DB, postID string, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		tag := models.Tag{TagName: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return err
		}
		if tag.ID == 0 {
			// Row already existed; fetch its id.
			if err := tx.Where("tag_name = ?", name).First(&tag).Error; err != nil {
				return err
			}
		}
		join := models.PostTag{PostID: postID, TagID: tag.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&join).Error; err != nil {
			return err
		}
	}
	return nil
}

// AddToPost attaches tags to a post, creating tag rows on first use.
// A missing post surfaces as not-found from the join foreign key.
func (r *TagRepository) AddToPost(ctx context.Context, postID string, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ensureTags(tx, postID, names)
	})
	if err != nil {
		return apperr.FromStore(err, "post")
	}
	return nil
}

// ListAll returns every tag
func (r *TagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("tag_name ASC").Find(&tags).Error; err != nil {
		return nil, apperr.FromStore(err, "tag")
	}
	return tags, nil
}

// ListByPost returns the tags attached to a post
func (r *TagRepository) ListByPost(ctx context.Context, postID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.tag_name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, apperr.FromStore(err, "tag")
	}
	return tags, nil
}
