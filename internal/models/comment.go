package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostComment is a comment on a post. Like ratings, its references are
// update-restricted against key changes on User and Post.
type PostComment struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id"`
	AuthorID  string    `gorm:"type:uuid;not null;index:gr_post_comments_author_ix;column:author_id"`
	PostID    string    `gorm:"type:uuid;not null;index:gr_post_comments_post_ix;column:post_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"not null;<-:create;column:created_at"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName specifies the table name for PostComment
func (PostComment) TableName() string {
	return "post_comments"
}

// BeforeCreate assigns a generated ID when none is set
func (c *PostComment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
