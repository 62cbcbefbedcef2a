package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxUsernameLen is the maximum length of a username
const MaxUsernameLen = 20

// User represents a registered account. Credentials live in Password,
// never here.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id"`
	Email     string    `gorm:"type:varchar(254);not null;uniqueIndex:gr_users_email_ux;column:email"`
	Username  string    `gorm:"type:varchar(20);not null;index:gr_users_username_ix;column:username"`
	CreatedAt time.Time `gorm:"not null;<-:create;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a generated ID when none is set
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Password holds the derived credential for a user, one row per user.
// The hash is a self-describing argon2id encoding; there is no separate
// salt column.
type Password struct {
	UserID string `gorm:"type:uuid;primaryKey;column:user_id"`
	Hash   string `gorm:"type:varchar(255);not null;column:password"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for Password
func (Password) TableName() string {
	return "passwords"
}
