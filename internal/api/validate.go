package api

import (
	"regexp"
	"unicode/utf8"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/auth"
	"github.com/gamingrealm/backend/internal/models"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validateUsername checks length and that only alphanumerics, dashes, and
// underscores are used
func validateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > models.MaxUsernameLen {
		return apperr.InvalidArgument("username must be between 1 and %d characters", models.MaxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return apperr.InvalidArgument("username cannot contain special characters other than underscores and dashes")
	}
	return nil
}

// validatePassword checks the minimum plaintext length
func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLen {
		return apperr.InvalidArgument("password must be at least %d characters long", auth.MinPasswordLen)
	}
	return nil
}

// validateEmail checks basic shape; the unique constraint is the real
// duplicate guard
func validateEmail(email string) error {
	if email == "" || len(email) > 254 || !emailRe.MatchString(email) {
		return apperr.InvalidArgument("invalid email address")
	}
	return nil
}
