package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voxpop/internal/database"
	"voxpop/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the same
// error translation the production Postgres connection uses, so the
// unique-index behaviour under test matches what the vote engine sees.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pool connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, ownerID uint, title string, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   "content of " + title,
		Published: published,
		UserID:    ownerID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestVote(t *testing.T, db *gorm.DB, userID, postID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Vote{UserID: userID, PostID: postID}).Error)
}

func ctx() context.Context { return context.Background() }
