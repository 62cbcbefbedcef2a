package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostReport is a user's report against a post, unique per (author, post).
type PostReport struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id"`
	AuthorID  string    `gorm:"type:uuid;not null;uniqueIndex:gr_post_reports_ux;column:author_id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:gr_post_reports_ux;column:post_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"not null;<-:create;column:created_at"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for PostReport
func (PostReport) TableName() string {
	return "post_reports"
}

// BeforeCreate assigns a generated ID when none is set
func (r *PostReport) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
