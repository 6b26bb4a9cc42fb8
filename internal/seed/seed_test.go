package seed

import (
	"testing"

	"agora/internal/database"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeederRun(t *testing.T) {
	db := newSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 5, NumPosts: 10, NumAnnouncements: 2}))

	var users, posts, announcements int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Announcement{}).Count(&announcements).Error)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(10), posts)
	assert.Equal(t, int64(2), announcements)

	// Exactly one seeded account carries the admin role.
	var admins int64
	require.NoError(t, db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	// Every post references a seeded tag and author.
	var orphanPosts int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_email NOT IN (SELECT email FROM users)").
		Count(&orphanPosts).Error)
	assert.Equal(t, int64(0), orphanPosts)
}

func TestSeederClearAll(t *testing.T) {
	db := newSeedTestDB(t)
	s := NewSeeder(db)
	require.NoError(t, s.Run(Options{NumUsers: 3, NumPosts: 5, NumAnnouncements: 1}))

	require.NoError(t, s.ClearAll())

	for _, model := range []interface{}{
		&models.User{}, &models.Post{}, &models.Vote{},
		&models.Comment{}, &models.Announcement{}, &models.AnnouncementRead{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}

	// The tag catalog survives a clean.
	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.NotZero(t, tags)
}
