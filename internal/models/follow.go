package models

import (
	"time"
)

// Follower is a directed follow edge. The composite primary key makes the
// (user, follows) pair unique; both ends disappear with their user.
type Follower struct {
	UserID     string    `gorm:"type:uuid;primaryKey;column:user_id"`
	FollowsID  string    `gorm:"type:uuid;primaryKey;column:follows_id"`
	FollowedAt time.Time `gorm:"not null;column:followed_at"`

	// Relationships
	User    *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Follows *User `gorm:"foreignKey:FollowsID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for Follower
func (Follower) TableName() string {
	return "followers"
}
