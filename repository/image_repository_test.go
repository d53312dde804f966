package repository

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

func TestImageListVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)
	seedImage(t, db, album, owner, "p/1", models.MediaTypeImage, false)
	seedImage(t, db, album, owner, "p/2", models.MediaTypeImage, true)

	public, err := repo.List(database.ImageFilter{}, database.Access{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(public) != 1 || public[0].PublicID != "p/1" {
		t.Errorf("anonymous listing = %d images, want only the public one", len(public))
	}

	all, err := repo.List(database.ImageFilter{}, database.Access{Elevated: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("elevated listing = %d images, want 2", len(all))
	}
}

func TestImageListTodayInPast(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)

	withTakenAt := func(publicID string, takenAt time.Time, isPrivate bool) {
		img := seedImage(t, db, album, owner, publicID, models.MediaTypeImage, isPrivate)
		if err := db.Model(img).Update("taken_at", takenAt).Error; err != nil {
			t.Fatalf("failed to set taken_at: %v", err)
		}
	}
	withTakenAt("t/2019", time.Date(2019, 6, 15, 10, 0, 0, 0, time.UTC), false)
	withTakenAt("t/2021", time.Date(2021, 6, 15, 8, 0, 0, 0, time.UTC), false)
	withTakenAt("t/other", time.Date(2021, 6, 16, 8, 0, 0, 0, time.UTC), false)
	withTakenAt("t/private", time.Date(2020, 6, 15, 8, 0, 0, 0, time.UTC), true)
	seedImage(t, db, album, owner, "t/undated", models.MediaTypeImage, false)

	got, err := repo.ListTodayInPast(6, 15, false)
	if err != nil {
		t.Fatalf("ListTodayInPast() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListTodayInPast() = %d images, want 2", len(got))
	}
	if got[0].PublicID != "t/2021" || got[1].PublicID != "t/2019" {
		t.Errorf("order = %s, %s; want newest first", got[0].PublicID, got[1].PublicID)
	}

	withPrivate, err := repo.ListTodayInPast(6, 15, true)
	if err != nil {
		t.Fatalf("ListTodayInPast(includePrivate) error = %v", err)
	}
	if len(withPrivate) != 3 {
		t.Errorf("ListTodayInPast(includePrivate) = %d images, want 3", len(withPrivate))
	}
}

func TestImageAddReaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)
	img := seedImage(t, db, album, owner, "r/1", models.MediaTypeImage, false)

	updated, err := repo.AddReaction(img.ID, "heart")
	if err != nil {
		t.Fatalf("AddReaction() error = %v", err)
	}
	if updated.Hearts != 1 || updated.Likes != 0 {
		t.Errorf("after heart: hearts=%d likes=%d", updated.Hearts, updated.Likes)
	}

	updated, err = repo.AddReaction(img.ID, "like")
	if err != nil {
		t.Fatalf("AddReaction() error = %v", err)
	}
	if updated.Hearts != 1 || updated.Likes != 1 {
		t.Errorf("after like: hearts=%d likes=%d", updated.Hearts, updated.Likes)
	}

	if _, err := repo.AddReaction(img.ID, "wave"); err == nil {
		t.Error("expected error for unknown reaction")
	}
	if _, err := repo.AddReaction(999, "heart"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("AddReaction(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestImageMove(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	src := seedAlbum(t, db, owner, "Source", true)
	dst := seedAlbum(t, db, owner, "Destination", true)
	img := seedImage(t, db, src, owner, "mv/1", models.MediaTypeImage, false)

	if err := repo.Move(img.ID, dst.ID); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	reloaded, err := repo.GetByID(img.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if reloaded.AlbumID != dst.ID {
		t.Errorf("AlbumID = %d, want %d", reloaded.AlbumID, dst.ID)
	}

	if err := repo.Move(999, dst.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Move(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestImageDeleteRemovesNotesAndLinks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)
	img := seedImage(t, db, album, owner, "del/1", models.MediaTypeImage, false)

	if err := repo.AddLoveNote(&models.LoveNote{ImageID: img.ID, Content: "note"}); err != nil {
		t.Fatalf("AddLoveNote() error = %v", err)
	}
	ann := &models.Anniversary{Title: "Linked", CreatedByID: owner.ID, ShowInTimeline: true, Tags: []string{}}
	if err := db.Create(ann).Error; err != nil {
		t.Fatalf("failed to seed anniversary: %v", err)
	}
	if err := db.Model(ann).Association("Images").Append(img); err != nil {
		t.Fatalf("failed to link image: %v", err)
	}

	if err := repo.Delete(img.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var count int64
	db.Model(&models.LoveNote{}).Count(&count)
	if count != 0 {
		t.Errorf("love notes remaining = %d", count)
	}
	db.Table("anniversary_images").Count(&count)
	if count != 0 {
		t.Errorf("anniversary links remaining = %d", count)
	}
}

func TestImageGetByIDPreloadsNotes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)
	img := seedImage(t, db, album, owner, "pl/1", models.MediaTypeImage, false)
	if err := repo.AddLoveNote(&models.LoveNote{ImageID: img.ID, Content: "first"}); err != nil {
		t.Fatalf("AddLoveNote() error = %v", err)
	}

	got, err := repo.GetByID(img.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Album == nil || got.Album.ID != album.ID {
		t.Error("expected album to be preloaded")
	}
	if len(got.LoveNotes) != 1 || got.LoveNotes[0].Content != "first" {
		t.Errorf("love notes = %+v", got.LoveNotes)
	}
}
