package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/db"
	"github.com/gamingrealm/backend/pkg/logging"
)

// PostAPI serves post, comment, rating, and report routes
type PostAPI struct {
	posts    *db.PostRepository
	comments *db.CommentRepository
	ratings  *db.RatingRepository
	reports  *db.ReportRepository
	tags     *db.TagRepository
	logger   *zap.Logger
}

// NewPostAPI creates a new post API
func NewPostAPI(repo *db.Repository) *PostAPI {
	return &PostAPI{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		ratings:  db.NewRatingRepository(repo),
		reports:  db.NewReportRepository(repo),
		tags:     db.NewTagRepository(repo),
		logger:   logging.WithComponent("api-post"),
	}
}

// pagination comes in as take and cursor headers
func pageParams(c *gin.Context) (int, string) {
	take := 10
	if v := c.GetHeader("take"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			take = n
		}
	}
	return take, c.GetHeader("cursor")
}

// ownedPost fetches a post and hides it behind not-found unless the viewer
// authored it
func (a *PostAPI) ownedPost(c *gin.Context, postID string) (string, bool) {
	post, err := a.posts.GetByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, a.logger, err)
		return "", false
	}
	if post.Deleted || post.AuthorID != currentUserID(c) {
		respondError(c, a.logger, apperr.NotFound("post not found"))
		return "", false
	}
	return post.ID, true
}

type createPostRequest struct {
	Title       string   `json:"title"`
	TextContent *string  `json:"text_content"`
	Tags        []string `json:"tags"`
	MediaURLs   []string `json:"media_urls"`
}

// Create handles POST /post
func (a *PostAPI) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	post, err := a.posts.Create(c.Request.Context(), db.CreatePostParams{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		TextContent: req.TextContent,
		Tags:        req.Tags,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	a.logger.Info("post created",
		zap.String("post_id", post.ID),
		zap.String("author_id", post.AuthorID))
	c.JSON(http.StatusOK, post)
}

// List handles GET /post with optional uid and tag filters
func (a *PostAPI) List(c *gin.Context) {
	take, cursor := pageParams(c)
	page, err := a.posts.List(c.Request.Context(), db.ListPostsParams{
		AuthorID: c.Query("uid"),
		Tag:      c.Query("tag"),
		Take:     take,
		CursorID: cursor,
	})
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /post/search
func (a *PostAPI) Search(c *gin.Context) {
	posts, err := a.posts.SearchByTitle(c.Request.Context(), c.Query("q"), 20)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts, "count": len(posts)})
}

// Get handles GET /post/:id
func (a *PostAPI) Get(c *gin.Context) {
	postID := c.Param("id")

	details, err := a.posts.GetDetails(c.Request.Context(), postID)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	comments, err := a.comments.ListByPost(c.Request.Context(), postID, 20, "")
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":       details.Post,
		"tags":       details.Tags,
		"avg_rating": details.AverageRating,
		"comments":   comments,
	})
}

type updatePostRequest struct {
	Title       *string `json:"title"`
	TextContent *string `json:"text_content"`
}

// Update handles PATCH /post/:id
func (a *PostAPI) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	postID, ok := a.ownedPost(c, c.Param("id"))
	if !ok {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), postID, db.UpdatePostFields{
		Title:       req.Title,
		TextContent: req.TextContent,
	})
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /post/:id. This endpoint only soft-deletes; the
// row and its comments, ratings, and media stay for moderation retention.
func (a *PostAPI) Delete(c *gin.Context) {
	postID, ok := a.ownedPost(c, c.Param("id"))
	if !ok {
		return
	}

	if err := a.posts.SoftDelete(c.Request.Context(), postID); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}

// CreateComment handles POST /post/:id/comments
func (a *PostAPI) CreateComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	comment, err := a.comments.Create(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// ListComments handles GET /post/:id/comments
func (a *PostAPI) ListComments(c *gin.Context) {
	take, cursor := pageParams(c)
	page, err := a.comments.ListByPost(c.Request.Context(), c.Param("id"), take, cursor)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteComment handles DELETE /post/:id/comments/:commentID
func (a *PostAPI) DeleteComment(c *gin.Context) {
	err := a.comments.DeleteOwned(c.Request.Context(), c.Param("commentID"), currentUserID(c))
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted."})
}

// Rate handles PUT /post/:id/rating with upsert semantics
func (a *PostAPI) Rate(c *gin.Context) {
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	if err := a.ratings.Rate(c.Request.Context(), c.Param("id"), currentUserID(c), req.Value); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved."})
}

// Report handles POST /post/:id/report
func (a *PostAPI) Report(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	report, err := a.reports.Create(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AddTags handles POST /post/:id/tags
func (a *PostAPI) AddTags(c *gin.Context) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, a.logger, apperr.InvalidArgument("malformed request body"))
		return
	}

	postID, ok := a.ownedPost(c, c.Param("id"))
	if !ok {
		return
	}

	if err := a.tags.AddToPost(c.Request.Context(), postID, req.Tags); err != nil {
		respondError(c, a.logger, err)
		return
	}

	tags, err := a.tags.ListByPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
