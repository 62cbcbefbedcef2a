package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTitleLen is the maximum length of a post title
const MaxTitleLen = 50

// Post represents a user post. Deleted is a soft-delete flag: flagged rows
// stay queryable by id but are excluded from listings.
type Post struct {
	ID          string         `gorm:"type:uuid;primaryKey;column:id"`
	AuthorID    string         `gorm:"type:uuid;not null;index:gr_posts_author_ix;column:author_id"`
	Title       string         `gorm:"type:varchar(50);not null;index:gr_posts_title_ix;column:title"`
	TextContent sql.NullString `gorm:"type:text;column:text_content"`
	CreatedAt   time.Time      `gorm:"not null;<-:create;column:created_at"`
	UpdatedAt   time.Time      `gorm:"not null;column:updated_at"`
	Deleted     bool           `gorm:"not null;default:false;column:deleted"`

	// Relationships
	Author *User       `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Media  []PostMedia `gorm:"foreignKey:PostID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a generated ID when none is set
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostMedia points at an externally stored media object. Only the URL is
// persisted, never the binary.
type PostMedia struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    string `gorm:"type:uuid;not null;index:gr_post_media_post_ix;column:post_id"`
	ObjectURL string `gorm:"type:varchar(1024);not null;column:object_url"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for PostMedia
func (PostMedia) TableName() string {
	return "post_media"
}
