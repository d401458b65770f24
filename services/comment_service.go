package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"socialnet/models"
)

// CommentService enforces the business rules for comments.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService backed by the given database handle.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListComments returns comments ordered by ascending creation time. When
// postID is non-nil the result is restricted to that post, otherwise comments
// across all posts are returned.
func (s *CommentService) ListComments(ctx context.Context, postID *uint) ([]models.Comment, error) {
	q := s.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if postID != nil {
		q = q.Where("post_id = ?", *postID)
	}
	comments := []models.Comment{}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetComment returns a single comment by id.
func (s *CommentService) GetComment(ctx context.Context, commentID uint) (models.Comment, error) {
	return s.loadComment(ctx, commentID)
}

// CreateComment attaches a new comment by author to an existing post. Both an
// empty text and an unknown post are validation failures, matching the shape
// of a bad request body rather than a missing resource.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID uint, text string) (models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}

	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, fmt.Errorf("%w: post does not exist", ErrValidation)
		}
		return models.Comment{}, err
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// UpdateComment replaces the text of a comment owned by requester.
func (s *CommentService) UpdateComment(ctx context.Context, requesterID, commentID uint, text string) (models.Comment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if !CanModify(requesterID, comment.AuthorID) {
		return models.Comment{}, ErrForbidden
	}
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}

	comment.Text = text
	if err := s.db.WithContext(ctx).Model(&comment).Update("text", text).Error; err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes a comment owned by requester.
func (s *CommentService) DeleteComment(ctx context.Context, requesterID, commentID uint) error {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !CanModify(requesterID, comment.AuthorID) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&comment).Error
}

func (s *CommentService) loadComment(ctx context.Context, commentID uint) (models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	return comment, nil
}
