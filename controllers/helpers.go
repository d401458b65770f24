package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"socialnet/middleware"
	"socialnet/models"
	"socialnet/services"
	"socialnet/utils"
)

// postPayload is the external shape of a post: image is null when absent and
// likes_count is the computed cardinality of the like set.
type postPayload struct {
	ID         uint             `json:"id"`
	Author     uint             `json:"author"`
	Text       string           `json:"text"`
	Image      *string          `json:"image"`
	CreatedAt  time.Time        `json:"created_at"`
	Comments   []models.Comment `json:"comments"`
	LikesCount int64            `json:"likes_count"`
}

func newPostPayload(v services.PostView) postPayload {
	var image *string
	if v.Post.Image != "" {
		img := v.Post.Image
		image = &img
	}
	comments := v.Comments
	if comments == nil {
		comments = []models.Comment{}
	}
	return postPayload{
		ID:         v.Post.ID,
		Author:     v.Post.AuthorID,
		Text:       v.Post.Text,
		Image:      image,
		CreatedAt:  v.Post.CreatedAt,
		Comments:   comments,
		LikesCount: v.LikesCount,
	}
}

// respondServiceError maps domain errors onto transport statuses. Only
// unexpected store failures are logged as errors; everything else is an
// expected caller mistake.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, services.ErrAlreadyLiked):
		utils.Error(ctx, http.StatusBadRequest, 40002, "you have already liked this post")
	case errors.Is(err, services.ErrNotLiked):
		utils.Error(ctx, http.StatusBadRequest, 40003, "you have not liked this post")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only modify your own content")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorw("unexpected store failure",
				"error", err,
				"method", ctx.Request.Method,
				"path", ctx.Request.URL.Path,
			)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
