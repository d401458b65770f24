package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/models"
)

const (
	userAlice uint = 1
	userBob   uint = 2
	userCarol uint = 3
)

func TestCreatePost(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	view, err := svc.CreatePost(ctx, userAlice, "hello world", "")
	require.NoError(t, err)
	assert.NotZero(t, view.Post.ID)
	assert.Equal(t, userAlice, view.Post.AuthorID)
	assert.Equal(t, "hello world", view.Post.Text)
	assert.Zero(t, view.LikesCount)
	assert.Empty(t, view.Comments)
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.CreatePost(ctx, userAlice, text, "")
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestListPostsOrderingAndAnnotations(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedPost(t, db, userAlice, "first", base)
	middle := seedPost(t, db, userBob, "second", base.Add(time.Hour))
	newest := seedPost(t, db, userAlice, "third", base.Add(2*time.Hour))

	seedComment(t, db, oldest.ID, userBob, "late reply", base.Add(3*time.Hour))
	seedComment(t, db, oldest.ID, userCarol, "early reply", base.Add(time.Minute))
	require.NoError(t, db.Create(&models.Like{PostID: middle.ID, UserID: userAlice}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: middle.ID, UserID: userCarol}).Error)

	views, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, newest.ID, views[0].Post.ID)
	assert.Equal(t, middle.ID, views[1].Post.ID)
	assert.Equal(t, oldest.ID, views[2].Post.ID)

	assert.EqualValues(t, 0, views[0].LikesCount)
	assert.EqualValues(t, 2, views[1].LikesCount)
	assert.EqualValues(t, 0, views[2].LikesCount)

	require.Len(t, views[2].Comments, 2)
	assert.Equal(t, "early reply", views[2].Comments[0].Text)
	assert.Equal(t, "late reply", views[2].Comments[1].Text)
}

func TestGetPostNotFound(t *testing.T) {
	svc := NewPostService(newTestDB(t))

	_, err := svc.GetPost(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePost(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "original", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	newText := "edited"
	view, err := svc.UpdatePost(ctx, userAlice, post.ID, PostUpdate{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, "edited", view.Post.Text)
	assert.Equal(t, userAlice, view.Post.AuthorID)

	// Image-only update leaves text alone.
	image := "/static/uploads/2025/06/01/pic.png"
	view, err = svc.UpdatePost(ctx, userAlice, post.ID, PostUpdate{Image: &image})
	require.NoError(t, err)
	assert.Equal(t, "edited", view.Post.Text)
	assert.Equal(t, image, view.Post.Image)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, userAlice, stored.AuthorID)
	assert.True(t, stored.CreatedAt.Equal(post.CreatedAt))
}

func TestUpdatePostAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "mine", time.Now())
	text := "hijacked"

	_, err := svc.UpdatePost(ctx, userBob, post.ID, PostUpdate{Text: &text})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdatePost(ctx, userAlice, 999, PostUpdate{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)

	empty := "  "
	_, err = svc.UpdatePost(ctx, userAlice, post.ID, PostUpdate{Text: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "mine", stored.Text)
}

func TestDeletePostCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "doomed", time.Now())
	other := seedPost(t, db, userBob, "survivor", time.Now())
	seedComment(t, db, post.ID, userBob, "gone soon", time.Now())
	seedComment(t, db, other.ID, userAlice, "stays", time.Now())
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: userBob}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: other.ID, UserID: userAlice}).Error)

	assert.ErrorIs(t, svc.DeletePost(ctx, userBob, post.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeletePost(ctx, userAlice, 999), ErrNotFound)

	require.NoError(t, svc.DeletePost(ctx, userAlice, post.ID))

	_, err := svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var commentCount, likeCount int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Zero(t, commentCount)
	assert.Zero(t, likeCount)

	// The other post's children are untouched.
	view, err := svc.GetPost(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.LikesCount)
	assert.Len(t, view.Comments, 1)
}

func TestLikeUnlikeLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())

	count, err := svc.LikePost(ctx, userBob, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Second like by the same identity is rejected and the count holds.
	count, err = svc.LikePost(ctx, userBob, post.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.EqualValues(t, 1, count)

	// A different identity still counts.
	count, err = svc.LikePost(ctx, userCarol, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = svc.UnlikePost(ctx, userBob, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = svc.UnlikePost(ctx, userBob, post.ID)
	assert.ErrorIs(t, err, ErrNotLiked)
	assert.EqualValues(t, 1, count)
}

func TestLikeUnknownPost(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.LikePost(ctx, userBob, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UnlikePost(ctx, userBob, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnlikeWithoutPriorLike(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	post := seedPost(t, db, userAlice, "hello", time.Now())

	count, err := svc.UnlikePost(context.Background(), userBob, post.ID)
	assert.ErrorIs(t, err, ErrNotLiked)
	assert.Zero(t, count)
}

func TestLikeCountIsRecomputed(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: userBob}).Error)

	view, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.LikesCount)

	// A row removed behind the service's back is reflected on the next read.
	require.NoError(t, db.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error)
	view, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, view.LikesCount)
}
