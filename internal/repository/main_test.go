package repository

import (
	"fmt"
	"testing"
	"time"

	"tingle/internal/database"
	"tingle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)
	user := &models.User{Name: username, Username: username, Email: &email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFollow(t *testing.T, db *gorm.DB, follower, following *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error)
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: author.ID, Text: text, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(post).Error)
	return post
}
