package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialnet/models"
)

// newTestDB opens a private in-memory database with the real schema so the
// composite unique index and delete behavior are exercised for real. A
// single connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Post{}, &models.Comment{}, &models.Like{}))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, text string, createdAt time.Time) models.Post {
	t.Helper()
	post := models.Post{AuthorID: authorID, Text: text, CreatedAt: createdAt}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, postID, authorID uint, text string, createdAt time.Time) models.Comment {
	t.Helper()
	comment := models.Comment{PostID: postID, AuthorID: authorID, Text: text, CreatedAt: createdAt}
	require.NoError(t, db.Create(&comment).Error)
	return comment
}
