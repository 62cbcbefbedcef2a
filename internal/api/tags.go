package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/db"
	"github.com/gamingrealm/backend/pkg/logging"
)

// TagAPI serves tag routes
type TagAPI struct {
	tags   *db.TagRepository
	logger *zap.Logger
}

// NewTagAPI creates a new tag API
func NewTagAPI(repo *db.Repository) *TagAPI {
	return &TagAPI{
		tags:   db.NewTagRepository(repo),
		logger: logging.WithComponent("api-tags"),
	}
}

// List handles GET /tags
func (a *TagAPI) List(c *gin.Context) {
	tags, err := a.tags.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
