package db

import (
	"context"
	"time"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
)

// CommentRepository provides comment database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create adds a comment to a post. A missing post or author surfaces as
// not-found from the foreign keys.
func (r *CommentRepository) Create(ctx context.Context, postID, authorID, content string) (*models.PostComment, error) {
	if content == "" {
		return nil, apperr.InvalidArgument("comment content must not be empty")
	}

	comment := models.PostComment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return &comment, nil
}

// ListByPost returns a page of a post's comments, newest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, take int, cursorID string) (*Page[models.PostComment], error) {
	if take <= 0 {
		take = 10
	}

	q := r.db.WithContext(ctx).Model(&models.PostComment{}).
		Preload("Author").
		Where("post_id = ?", postID)

	if cursorID != "" {
		var cursor models.PostComment
		if err := r.db.WithContext(ctx).Select("id", "created_at").
			Where("id = ?", cursorID).First(&cursor).Error; err != nil {
			return nil, apperr.FromStore(err, "comment")
		}
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var comments []models.PostComment
	if err := q.Order("created_at DESC, id DESC").Limit(take).Find(&comments).Error; err != nil {
		return nil, apperr.FromStore(err, "comment")
	}

	page := Page[models.PostComment]{Data: comments, Count: len(comments)}
	if len(comments) == take {
		page.CursorID = comments[len(comments)-1].ID
	}
	return &page, nil
}

// DeleteOwned removes a comment if it belongs to the given author
func (r *CommentRepository) DeleteOwned(ctx context.Context, commentID, authorID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", commentID, authorID).
		Delete(&models.PostComment{})
	if res.Error != nil {
		return apperr.FromStore(res.Error, "comment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}
