package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
	"github.com/gamingrealm/backend/pkg/telemetry"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// CreatePostParams are the caller-supplied fields for a new post
type CreatePostParams struct {
	AuthorID    string
	Title       string
	TextContent *string
	Tags        []string
	MediaURLs   []string
}

// UpdatePostFields are the mutable fields of a post; nil means unchanged
type UpdatePostFields struct {
	Title       *string
	TextContent *string
}

// ListPostsParams filter and paginate the post listing
type ListPostsParams struct {
	AuthorID string
	Tag      string
	Take     int
	CursorID string
}

// PostDetails is a post with its attachments and rating summary
type PostDetails struct {
	Post          models.Post  `json:"post"`
	Tags          []models.Tag `json:"tags"`
	AverageRating int          `json:"avg_rating"`
}

func validateTitle(title string) error {
	if title == "" || utf8.RuneCountInString(title) > models.MaxTitleLen {
		return apperr.InvalidArgument("title must be between 1 and %d characters", models.MaxTitleLen)
	}
	return nil
}

// Create inserts a post with its tags and media rows in one transaction.
// A missing author surfaces as not-found from the foreign key.
func (r *PostRepository) Create(ctx context.Context, p CreatePostParams) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.posts.create")
	defer span.End()

	if err := validateTitle(p.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := models.Post{
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.TextContent != nil {
		post.TextContent = sql.NullString{String: *p.TextContent, Valid: true}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := ensureTags(tx, post.ID, p.Tags); err != nil {
			return err
		}
		for _, url := range p.MediaURLs {
			media := models.PostMedia{PostID: post.ID, ObjectURL: url}
			if err := tx.Create(&media).Error; err != nil {
				return err
			}
			post.Media = append(post.Media, media)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return &post, nil
}

// Update applies field changes and refreshes updated_at. A post that is
// unknown or already soft-deleted is reported as not found.
func (r *PostRepository) Update(ctx context.Context, postID string, fields UpdatePostFields) (*models.Post, error) {
	if fields.Title != nil {
		if err := validateTitle(*fields.Title); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.TextContent != nil {
		updates["text_content"] = *fields.TextContent
	}

	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND deleted = false", postID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperr.FromStore(res.Error, "post")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("post not found")
	}

	return r.GetByID(ctx, postID)
}

// SoftDelete flags a post as deleted. Comments, ratings, and media are
// retained until the row is hard-deleted.
func (r *PostRepository) SoftDelete(ctx context.Context, postID string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND deleted = false", postID).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return apperr.FromStore(res.Error, "post")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("post not found")
	}
	return nil
}

// HardDelete removes a post row for moderation retention cleanup. The store
// cascades to media, comments, ratings, reports, and tag joins; tags stay.
func (r *PostRepository) HardDelete(ctx context.Context, postID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if res.Error != nil {
		return apperr.FromStore(res.Error, "post")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("post not found")
	}
	return nil
}

// GetByID retrieves a post by ID with its author and media. Soft-deleted
// posts remain reachable here; listing exclusion is the caller's policy.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return &post, nil
}

// GetDetails retrieves a non-deleted post with tags and the rounded
// average rating.
func (r *PostRepository) GetDetails(ctx context.Context, id string) (*PostDetails, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.posts.get_details")
	defer span.End()

	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Deleted {
		return nil, apperr.NotFound("post not found")
	}

	details := PostDetails{Post: *post}

	err = r.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", id).
		Order("tags.tag_name ASC").
		Find(&details.Tags).Error
	if err != nil {
		return nil, apperr.FromStore(err, "tag")
	}

	avg, err := r.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	details.AverageRating = avg

	return &details, nil
}

// AverageRating returns the rounded mean rating for a post, 0 when unrated
func (r *PostRepository) AverageRating(ctx context.Context, postID string) (int, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&models.PostRating{}).
		Select("AVG(value)").
		Where("post_id = ?", postID).
		Scan(&avg).Error
	if err != nil {
		return 0, apperr.FromStore(err, "rating")
	}
	if !avg.Valid {
		return 0, nil
	}
	return int(avg.Float64 + 0.5), nil
}

// List returns a page of non-deleted posts, newest first. The cursor is the
// ID of the last row of the previous page.
func (r *PostRepository) List(ctx context.Context, p ListPostsParams) (*Page[models.Post], error) {
	ctx, span := telemetry.StartSpan(ctx, "db.posts.list")
	defer span.End()

	if p.Take <= 0 {
		p.Take = 10
	}

	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("Author").
		Preload("Media").
		Where("posts.deleted = false")

	if p.AuthorID != "" {
		q = q.Where("posts.author_id = ?", p.AuthorID)
	}
	if p.Tag != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.tag_name = ?", p.Tag)
	}

	if p.CursorID != "" {
		var cursor models.Post
		if err := r.db.WithContext(ctx).Select("id", "created_at").
			Where("id = ?", p.CursorID).First(&cursor).Error; err != nil {
			return nil, apperr.FromStore(err, "post")
		}
		q = q.Where("(posts.created_at, posts.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var posts []models.Post
	if err := q.Order("posts.created_at DESC, posts.id DESC").Limit(p.Take).Find(&posts).Error; err != nil {
		return nil, apperr.FromStore(err, "post")
	}

	page := Page[models.Post]{Data: posts, Count: len(posts)}
	if len(posts) == p.Take {
		page.CursorID = posts[len(posts)-1].ID
	}
	return &page, nil
}

// SearchByTitle runs a full-text search over post titles
func (r *PostRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.posts.search")
	defer span.End()

	if limit <= 0 || limit > 20 {
		limit = 20
	}
	phrase := strings.Join(strings.Fields(query), " & ")
	if phrase == "" {
		return []models.Post{}, nil
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM posts
		     WHERE deleted = false AND to_tsvector(title) @@ to_tsquery(?)
		     ORDER BY created_at DESC LIMIT ?`, phrase, limit).
		Scan(&posts).Error
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return posts, nil
}
