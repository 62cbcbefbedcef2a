package models

import (
	"time"
)

// PostRating is the single rating a user gave a post. The composite primary
// key enforces one row per (post, rater) pair; writes go through an atomic
// upsert. Updates to the referenced keys are restricted, not cascaded.
type PostRating struct {
	PostID    string    `gorm:"type:uuid;primaryKey;column:post_id"`
	AuthorID  string    `gorm:"type:uuid;primaryKey;column:author_id"`
	Value     int       `gorm:"not null;column:value"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName specifies the table name for PostRating
func (PostRating) TableName() string {
	return "post_ratings"
}
