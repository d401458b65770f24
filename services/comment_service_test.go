package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/models"
)

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())

	comment, err := svc.CreateComment(ctx, userBob, post.ID, "nice post")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, userBob, comment.AuthorID)
	assert.Equal(t, "nice post", comment.Text)
}

func TestCreateCommentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())

	// Empty text fails regardless of post validity.
	_, err := svc.CreateComment(ctx, userBob, post.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	// An unknown post is a validation failure, not a missing resource.
	_, err = svc.CreateComment(ctx, userBob, 999, "orphan")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListCommentsFilterAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := seedPost(t, db, userAlice, "one", base)
	p2 := seedPost(t, db, userBob, "two", base)

	seedComment(t, db, p1.ID, userBob, "second on p1", base.Add(2*time.Hour))
	seedComment(t, db, p1.ID, userCarol, "first on p1", base.Add(time.Hour))
	seedComment(t, db, p2.ID, userAlice, "only on p2", base.Add(30*time.Minute))

	filtered, err := svc.ListComments(ctx, &p1.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "first on p1", filtered[0].Text)
	assert.Equal(t, "second on p1", filtered[1].Text)
	for _, c := range filtered {
		assert.Equal(t, p1.ID, c.PostID)
	}

	all, err := svc.ListComments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "only on p2", all[0].Text)
	assert.Equal(t, "first on p1", all[1].Text)
	assert.Equal(t, "second on p1", all[2].Text)
}

func TestListCommentsEmpty(t *testing.T) {
	svc := NewCommentService(newTestDB(t))

	comments, err := svc.ListComments(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestUpdateComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())
	comment := seedComment(t, db, post.ID, userBob, "original", time.Now())

	updated, err := svc.UpdateComment(ctx, userBob, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, userBob, updated.AuthorID)
	assert.Equal(t, post.ID, updated.PostID)

	_, err = svc.UpdateComment(ctx, userAlice, comment.ID, "hijacked")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateComment(ctx, userBob, 999, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateComment(ctx, userBob, comment.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()

	post := seedPost(t, db, userAlice, "hello", time.Now())
	comment := seedComment(t, db, post.ID, userBob, "bye", time.Now())

	assert.ErrorIs(t, svc.DeleteComment(ctx, userAlice, comment.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteComment(ctx, userBob, 999), ErrNotFound)

	require.NoError(t, svc.DeleteComment(ctx, userBob, comment.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Zero(t, count)
}
