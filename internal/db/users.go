package db

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/models"
	"github.com/gamingrealm/backend/pkg/telemetry"
)

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// Profile is the public view of a user with follow statistics.
// IsFollowing is nil when there is no authenticated viewer.
type Profile struct {
	User           models.User `json:"user"`
	FollowerCount  int64       `json:"follower_count"`
	FollowingCount int64       `json:"following_count"`
	PostCount      int64       `json:"post_count"`
	IsFollowing    *bool       `json:"is_following,omitempty"`
}

// Create registers a user together with their password row in one
// transaction. A duplicate email surfaces as a conflict from the unique
// constraint.
func (r *UserRepository) Create(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.users.create")
	defer span.End()

	if username == "" || utf8.RuneCountInString(username) > models.MaxUsernameLen {
		return nil, apperr.InvalidArgument("username must be between 1 and %d characters", models.MaxUsernameLen)
	}

	user := models.User{
		Email:    email,
		Username: username,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Password{UserID: user.ID, Hash: passwordHash}).Error
	})
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return &user, nil
}

// GetByUsername retrieves the first user with the given username.
// Usernames are not unique; login resolves the earliest registration.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at ASC").
		First(&user).Error; err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return &user, nil
}

// UsernameOrEmailTaken reports whether any user holds the given username or
// email. Signup uses it for an early rejection; the email unique constraint
// remains the real guard under concurrent registrations.
func (r *UserRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, apperr.FromStore(err, "user")
	}
	return count > 0, nil
}

// Delete hard-deletes a user. The store cascades to the password row, posts,
// follow edges in both directions, comments, ratings, and reports.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "db.users.delete")
	defer span.End()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return apperr.FromStore(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// GetProfile assembles the public profile for a user. viewerID may be empty
// for anonymous requests.
func (r *UserRepository) GetProfile(ctx context.Context, id, viewerID string) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.users.get_profile")
	defer span.End()

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := Profile{User: *user}
	tx := r.db.WithContext(ctx)

	if err := tx.Model(&models.Follower{}).Where("follows_id = ?", id).Count(&profile.FollowerCount).Error; err != nil {
		return nil, apperr.FromStore(err, "follower")
	}
	if err := tx.Model(&models.Follower{}).Where("user_id = ?", id).Count(&profile.FollowingCount).Error; err != nil {
		return nil, apperr.FromStore(err, "follower")
	}
	if err := tx.Model(&models.Post{}).Where("author_id = ? AND deleted = false", id).Count(&profile.PostCount).Error; err != nil {
		return nil, apperr.FromStore(err, "post")
	}

	if viewerID != "" && viewerID != id {
		var count int64
		err := tx.Model(&models.Follower{}).
			Where("user_id = ? AND follows_id = ?", viewerID, id).
			Count(&count).Error
		if err != nil {
			return nil, apperr.FromStore(err, "follower")
		}
		following := count > 0
		profile.IsFollowing = &following
	}

	return &profile, nil
}

// GetPasswordHash returns the stored credential hash for a user. A missing
// row is reported as not found; the credential layer maps that to a failed
// verification, never an enumeration signal.
func (r *UserRepository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var pw models.Password
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("password not found")
		}
		return "", apperr.FromStore(err, "password")
	}
	return pw.Hash, nil
}

// SetPasswordHash stores the credential hash for a user, replacing any
// existing row. The write is a single upsert keyed on user_id.
func (r *UserRepository) SetPasswordHash(ctx context.Context, userID, hash string) error {
	err := r.db.WithContext(ctx).
		Exec(`INSERT INTO passwords (user_id, password) VALUES (?, ?)
		      ON CONFLICT (user_id) DO UPDATE SET password = EXCLUDED.password`,
			userID, hash).Error
	if err != nil {
		return apperr.FromStore(err, "user")
	}
	return nil
}
