package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/auth"
	"github.com/gamingrealm/backend/internal/db"
	"github.com/gamingrealm/backend/internal/session"
	"github.com/gamingrealm/backend/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db       *db.DB
	sessions session.Storage
	users    *UserAPI
	posts    *PostAPI
	tags     *TagAPI
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, sessions session.Storage, creds *auth.Service) *Router {
	repo := db.NewRepository(database.DB)
	return &Router{
		db:       database,
		sessions: sessions,
		users:    NewUserAPI(repo, creds, sessions),
		posts:    NewPostAPI(repo),
		tags:     NewTagAPI(repo),
		logger:   logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	authed := requireAuth(r.sessions)
	viewer := optionalAuth(r.sessions)

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Poooooong!"})
	})

	user := engine.Group("/user")
	{
		user.POST("/signup", r.users.Signup)
		user.POST("/login", r.users.Login)
		user.POST("/logout", authed, r.users.Logout)
		user.PUT("/me/password", authed, r.users.ChangePassword)
		user.DELETE("/me", authed, r.users.DeleteMe)
		user.GET("/:id", viewer, r.users.GetProfile)
		user.GET("/:id/followers", r.users.ListFollowers)
		user.GET("/:id/following", r.users.ListFollowing)
		user.POST("/:id/follow", authed, r.users.Follow)
		user.DELETE("/:id/follow", authed, r.users.Unfollow)
	}

	post := engine.Group("/post")
	{
		post.GET("", r.posts.List)
		post.POST("", authed, r.posts.Create)
		post.GET("/search", r.posts.Search)
		post.GET("/:id", r.posts.Get)
		post.PATCH("/:id", authed, r.posts.Update)
		post.DELETE("/:id", authed, r.posts.Delete)
		post.GET("/:id/comments", r.posts.ListComments)
		post.POST("/:id/comments", authed, r.posts.CreateComment)
		post.DELETE("/:id/comments/:commentID", authed, r.posts.DeleteComment)
		post.PUT("/:id/rating", authed, r.posts.Rate)
		post.POST("/:id/report", authed, r.posts.Report)
		post.POST("/:id/tags", authed, r.posts.AddTags)
	}

	engine.GET("/tags", r.tags.List)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "UNAVAILABLE",
			"service": "gamingrealm-api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "gamingrealm-api",
	})
}
