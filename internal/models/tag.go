package models

// Tag is a reusable label. Tags are created on first use and outlive the
// posts that carry them; tag_name matching is case-sensitive.
type Tag struct {
	ID      int64  `gorm:"primaryKey;autoIncrement;column:id"`
	TagName string `gorm:"type:varchar(32);not null;uniqueIndex:gr_tags_name_ux;column:tag_name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// PostTag joins posts to tags. Deleting either side removes the join row
// only, never the Tag.
type PostTag struct {
	PostID string `gorm:"type:uuid;primaryKey;column:post_id"`
	TagID  int64  `gorm:"primaryKey;column:tag_id"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tag  *Tag  `gorm:"foreignKey:TagID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "post_tags"
}
