package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/auth"
	"github.com/gamingrealm/backend/internal/db"
	"github.com/gamingrealm/backend/internal/session"
	"github.com/gamingrealm/backend/pkg/logging"
)

// UserAPI serves registration, authentication, profile, and follow routes
type UserAPI struct {
	users    *db.UserRepository
	follows  *db.FollowRepository
	creds    *auth.Service
	sessions session.Storage
	logger   *zap.Logger
}

// NewUserAPI creates a new user API
func NewUserAPI(repo *db.Repository, creds *auth.Service, sessions session.Storage) *UserAPI {
	return &UserAPI{
		users:    db.NewUserRepository(repo),
		follows:  db.NewFollowRepository(repo),
		creds:    creds,
		sessions: sessions,
		logger:   logging.WithComponent("api-user"),
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /user/signup
func (a *UserAPI) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	if err := validateUsername(req.Username); err != nil {
		respondError(c, a.logger, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respondError(c, a.logger, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		respondError(c, a.logger, err)
		return
	}

	// Advisory pre-check for a friendlier error; the email unique
	// constraint remains the guard under races.
	taken, err := a.users.UsernameOrEmailTaken(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	if taken {
		respondError(c, a.logger, apperr.Conflict("the username or email already exists"))
		return
	}

	hash, err := a.creds.Hash(req.Password)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	user, err := a.users.Create(c.Request.Context(), req.Email, req.Username, hash)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	s, err := a.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	a.logger.Info("account created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"user":       user,
		"message":    "Account created.",
	})
}

// Login handles POST /user/login
func (a *UserAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	user, err := a.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			// Same response as a bad password; no account probing.
			respondError(c, a.logger, apperr.Authentication("the username or password is incorrect"))
			return
		}
		respondError(c, a.logger, err)
		return
	}

	ok, err := a.creds.VerifyPassword(c.Request.Context(), user.ID, req.Password)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	if !ok {
		respondError(c, a.logger, apperr.Authentication("the username or password is incorrect"))
		return
	}

	// Creating the new session evicts any previous one for this user.
	s, err := a.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	a.logger.Info("session created",
		zap.String("user_id", user.ID),
		zap.String("session_id", s.ID))

	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"user":       user,
		"message":    "Successfully logged in.",
	})
}

// Logout handles POST /user/logout
func (a *UserAPI) Logout(c *gin.Context) {
	if err := a.sessions.Delete(c.Request.Context(), c.GetString(ctxSessionKey)); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// ChangePassword handles PUT /user/me/password
func (a *UserAPI) ChangePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	if err := a.creds.SetPassword(c.Request.Context(), currentUserID(c), req.Password); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated."})
}

// DeleteMe handles DELETE /user/me. Posts, follow edges, comments, ratings,
// reports, and the password row go with the account.
func (a *UserAPI) DeleteMe(c *gin.Context) {
	userID := currentUserID(c)

	if err := a.users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, a.logger, err)
		return
	}

	if err := a.sessions.Delete(c.Request.Context(), c.GetString(ctxSessionKey)); err != nil && !apperr.IsNotFound(err) {
		a.logger.Warn("failed to delete session after account deletion", zap.Error(err))
	}

	a.logger.Info("account deleted", zap.String("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

// GetProfile handles GET /user/:id
func (a *UserAPI) GetProfile(c *gin.Context) {
	profile, err := a.users.GetProfile(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListFollowers handles GET /user/:id/followers
func (a *UserAPI) ListFollowers(c *gin.Context) {
	users, err := a.follows.ListFollowers(c.Request.Context(), c.Param("id"), 100)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
}

// ListFollowing handles GET /user/:id/following
func (a *UserAPI) ListFollowing(c *gin.Context) {
	users, err := a.follows.ListFollowing(c.Request.Context(), c.Param("id"), 100)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
}

// Follow handles POST /user/:id/follow
func (a *UserAPI) Follow(c *gin.Context) {
	if err := a.follows.Follow(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Followed."})
}

// Unfollow handles DELETE /user/:id/follow
func (a *UserAPI) Unfollow(c *gin.Context) {
	if err := a.follows.Unfollow(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed."})
}
