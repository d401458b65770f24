package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"socialnet/models"
)

// PostView bundles a post with its computed like count and its comments in
// ascending creation order. The count is recomputed on every read and is
// never stored or cached.
type PostView struct {
	Post       models.Post
	LikesCount int64
	Comments   []models.Comment
}

// PostUpdate carries a partial update; nil fields are left untouched.
type PostUpdate struct {
	Text  *string
	Image *string
}

// PostService enforces the business rules for posts and likes independent of
// any transport.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService backed by the given database handle.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// ListPosts returns every post, newest first, each annotated with its like
// count and its comments ordered by ascending creation time.
func (s *PostService) ListPosts(ctx context.Context) ([]PostView, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []PostView{}, nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	commentsByPost := make(map[uint][]models.Comment, len(posts))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}

	counts, err := s.likeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{
			Post:       p,
			LikesCount: counts[p.ID],
			Comments:   commentsByPost[p.ID],
		})
	}
	return views, nil
}

// GetPost returns a single post with its like count and comments.
func (s *PostService) GetPost(ctx context.Context, postID uint) (PostView, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	return s.buildView(ctx, post)
}

// CreatePost persists a new post owned by author. Text must be non-empty;
// image is an optional blob reference URL.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, text, image string) (PostView, error) {
	if strings.TrimSpace(text) == "" {
		return PostView{}, fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}

	post := models.Post{
		AuthorID: authorID,
		Text:     text,
		Image:    image,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return PostView{}, err
	}
	return PostView{Post: post, Comments: []models.Comment{}}, nil
}

// UpdatePost applies a partial update to a post owned by requester. Author
// and creation time are immutable.
func (s *PostService) UpdatePost(ctx context.Context, requesterID, postID uint, upd PostUpdate) (PostView, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	if !CanModify(requesterID, post.AuthorID) {
		return PostView{}, ErrForbidden
	}

	fields := map[string]interface{}{}
	if upd.Text != nil {
		if strings.TrimSpace(*upd.Text) == "" {
			return PostView{}, fmt.Errorf("%w: text cannot be empty", ErrValidation)
		}
		fields["text"] = *upd.Text
		post.Text = *upd.Text
	}
	if upd.Image != nil {
		fields["image"] = *upd.Image
		post.Image = *upd.Image
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&post).Updates(fields).Error; err != nil {
			return PostView{}, err
		}
	}
	return s.buildView(ctx, post)
}

// DeletePost removes a post owned by requester together with its likes and
// comments. Children go first inside one transaction so a concurrent reader
// never observes an orphaned row.
func (s *PostService) DeletePost(ctx context.Context, requesterID, postID uint) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !CanModify(requesterID, post.AuthorID) {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// LikePost records requester's like of a post and returns the fresh count.
// The insert races on the (post_id, user_id) unique index rather than on a
// prior existence check, so concurrent duplicates cannot both succeed; the
// loser gets ErrAlreadyLiked with the count unchanged.
func (s *PostService) LikePost(ctx context.Context, requesterID, postID uint) (int64, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	like := models.Like{PostID: post.ID, UserID: requesterID}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isDuplicate(err) {
			count, countErr := s.likeCount(ctx, post.ID)
			if countErr != nil {
				return 0, countErr
			}
			return count, ErrAlreadyLiked
		}
		return 0, err
	}
	return s.likeCount(ctx, post.ID)
}

// UnlikePost removes requester's like of a post and returns the fresh count.
// A missing like yields ErrNotLiked.
func (s *PostService) UnlikePost(ctx context.Context, requesterID, postID uint) (int64, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", post.ID, requesterID).
		Delete(&models.Like{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		count, countErr := s.likeCount(ctx, post.ID)
		if countErr != nil {
			return 0, countErr
		}
		return count, ErrNotLiked
	}
	return s.likeCount(ctx, post.ID)
}

func (s *PostService) loadPost(ctx context.Context, postID uint) (models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func (s *PostService) buildView(ctx context.Context, post models.Post) (PostView, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return PostView{}, err
	}
	count, err := s.likeCount(ctx, post.ID)
	if err != nil {
		return PostView{}, err
	}
	return PostView{Post: post, LikesCount: count, Comments: comments}, nil
}

func (s *PostService) likeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostService) likeCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	var rows []struct {
		PostID uint
		Total  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts, nil
}

// isDuplicate reports whether err is a unique constraint violation. GORM's
// TranslateError covers the common case; the string checks keep MySQL and
// SQLite drivers covered when translation is off.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
