package db

import (
	"context"
	"time"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
)

// ReportRepository provides report database operations
type ReportRepository struct {
	*Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(repo *Repository) *ReportRepository {
	return &ReportRepository{Repository: repo}
}

// Create files a report against a post. The (author, post) unique index is
// the duplicate guard; a second report from the same user conflicts.
func (r *ReportRepository) Create(ctx context.Context, postID, authorID, content string) (*models.PostReport, error) {
	if content == "" {
		return nil, apperr.InvalidArgument("report content must not be empty")
	}

	report := models.PostReport{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, apperr.FromStore(err, "report")
	}
	return &report, nil
}

// ListByPost returns all reports filed against a post, oldest first.
// Intended for moderation tooling, not the public API.
func (r *ReportRepository) ListByPost(ctx context.Context, postID string) ([]models.PostReport, error) {
	var reports []models.PostReport
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, apperr.FromStore(err, "report")
	}
	return reports, nil
}
