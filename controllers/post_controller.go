package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialnet/services"
	"socialnet/utils"
)

// PostController maps HTTP requests onto the post domain service.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// ListPosts returns every post, newest first, with likes_count and comments.
func (p *PostController) ListPosts(ctx *gin.Context) {
	views, err := p.posts.ListPosts(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	items := make([]postPayload, 0, len(views))
	for _, v := range views {
		items = append(items, newPostPayload(v))
	}
	utils.Success(ctx, gin.H{"items": items})
}

// GetPost returns a single post with likes_count and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	view, err := p.posts.GetPost(ctx.Request.Context(), postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": newPostPayload(view)})
}

// CreatePost allows authenticated users to create new posts. Accepts JSON
// with an external image reference, or multipart form data with an inline
// image file.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var text, image string
	if strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		text = ctx.PostForm("text")
		if file, err := ctx.FormFile("image"); err == nil {
			url, saveErr := saveImage(file, userID)
			if saveErr != nil {
				respondUploadError(ctx, saveErr)
				return
			}
			image = url
		}
	} else {
		var req struct {
			Text  string `json:"text" binding:"required"`
			Image string `json:"image"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
			return
		}
		text = req.Text
		image = req.Image
	}

	view, err := p.posts.CreatePost(ctx.Request.Context(), userID, utils.Sanitize(text), image)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"post": newPostPayload(view)})
}

// UpdatePost allows the author to partially update their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var req struct {
		Text  *string `json:"text"`
		Image *string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	upd := services.PostUpdate{Image: req.Image}
	if req.Text != nil {
		clean := utils.Sanitize(*req.Text)
		upd.Text = &clean
	}

	view, err := p.posts.UpdatePost(ctx.Request.Context(), userID, postID, upd)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": newPostPayload(view)})
}

// DeletePost allows the author to delete their post, cascading removal of
// its likes and comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if err := p.posts.DeletePost(ctx.Request.Context(), userID, postID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// LikePost records the caller's like and returns the fresh count. Liking a
// post twice is rejected with 400, not treated as a server fault.
func (p *PostController) LikePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	count, err := p.posts.LikePost(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"likes_count": count})
}

// UnlikePost removes the caller's like and returns the fresh count.
func (p *PostController) UnlikePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	count, err := p.posts.UnlikePost(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"likes_count": count})
}
