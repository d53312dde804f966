package repository

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory database per test; a bare :memory: DSN would give
	// every pooled connection its own empty database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: models.RoleViewer}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedAlbum(t *testing.T, db *gorm.DB, owner *models.User, title string, isPublic bool) *models.Album {
	t.Helper()
	album := &models.Album{Title: title, IsPublic: isPublic, Tags: []string{}, CreatedByID: owner.ID}
	if err := db.Create(album).Error; err != nil {
		t.Fatalf("failed to seed album: %v", err)
	}
	return album
}

func seedImage(t *testing.T, db *gorm.DB, album *models.Album, owner *models.User, publicID, mediaType string, isPrivate bool) *models.Image {
	t.Helper()
	image := &models.Image{
		URL:          "http://localhost/media/" + publicID,
		ThumbnailURL: "http://localhost/media/" + publicID + "_thumb.jpg",
		PublicID:     publicID,
		Type:         mediaType,
		AlbumID:      album.ID,
		Tags:         []string{},
		IsPrivate:    isPrivate,
		UploadedByID: owner.ID,
	}
	if err := db.Create(image).Error; err != nil {
		t.Fatalf("failed to seed image: %v", err)
	}
	return image
}
