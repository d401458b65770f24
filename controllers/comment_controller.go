package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/services"
	"socialnet/utils"
)

// CommentController maps HTTP requests onto the comment domain service.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// ListComments returns comments in ascending creation order, optionally
// filtered to one post via ?post=<id>.
func (c *CommentController) ListComments(ctx *gin.Context) {
	var postID *uint
	if raw := ctx.Query("post"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40030, "invalid post filter")
			return
		}
		postID = &id
	}

	comments, err := c.comments.ListComments(ctx.Request.Context(), postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}

// GetComment returns a single comment by id.
func (c *CommentController) GetComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}

	comment, err := c.comments.GetComment(ctx.Request.Context(), commentID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// CreateComment allows authenticated users to comment on an existing post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	var req struct {
		Post uint   `json:"post" binding:"required"`
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	comment, err := c.comments.CreateComment(ctx.Request.Context(), userID, req.Post, utils.Sanitize(req.Text))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"comment": comment})
}

// UpdateComment allows the author to replace the text of their comment.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	comment, err := c.comments.UpdateComment(ctx.Request.Context(), userID, commentID, utils.Sanitize(req.Text))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the author to delete their comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}

	if err := c.comments.DeleteComment(ctx.Request.Context(), userID, commentID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
