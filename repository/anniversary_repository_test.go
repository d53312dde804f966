package repository

import (
	"testing"

	"github.com/ourmemories/memoriesbackend/models"
)

func TestAnniversaryCreatePersistsFlags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnniversaryRepository(db)
	owner := seedUser(t, db, "owner@example.com")

	ann := &models.Anniversary{
		Title:          "Quiet one",
		ShowInTimeline: false,
		IsPrivate:      true,
		CreatedByID:    owner.ID,
	}
	if err := repo.Create(ann); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	stored, err := repo.GetByID(ann.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.ShowInTimeline {
		t.Error("anniversary created with ShowInTimeline=false was stored as true")
	}
	if !stored.IsPrivate {
		t.Error("anniversary created with IsPrivate=true was stored as public")
	}
}

func TestAnniversaryReplaceLinks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnniversaryRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	album := seedAlbum(t, db, owner, "Album", true)
	a := seedImage(t, db, album, owner, "l/1", models.MediaTypeImage, false)
	b := seedImage(t, db, album, owner, "l/2", models.MediaTypeImage, false)

	ann := &models.Anniversary{Title: "Linked", ShowInTimeline: true, CreatedByID: owner.ID}
	if err := repo.Create(ann); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.ReplaceLinks(ann, []models.Image{{ID: a.ID}}, nil); err != nil {
		t.Fatalf("ReplaceLinks() error = %v", err)
	}

	stored, err := repo.GetByID(ann.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Images) != 1 || stored.Images[0].ID != a.ID {
		t.Fatalf("links = %+v, want image %d", stored.Images, a.ID)
	}

	// replacing swaps, nil leaves the other side untouched
	if err := repo.ReplaceLinks(ann, []models.Image{{ID: b.ID}}, nil); err != nil {
		t.Fatalf("ReplaceLinks() error = %v", err)
	}
	stored, err = repo.GetByID(ann.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Images) != 1 || stored.Images[0].ID != b.ID {
		t.Errorf("links after replace = %+v, want image %d", stored.Images, b.ID)
	}
}
