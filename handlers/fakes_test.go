package handlers

import (
	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

// fakeImageRepo serves canned images for handler tests.
type fakeImageRepo struct {
	images []models.Image
}

func (f *fakeImageRepo) Create(image *models.Image) error { return nil }

func (f *fakeImageRepo) GetByID(id uint) (*models.Image, error) {
	for i := range f.images {
		if f.images[i].ID == id {
			return &f.images[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImageRepo) List(filter database.ImageFilter, access database.Access) ([]models.Image, error) {
	var out []models.Image
	for _, img := range f.images {
		if filter.Anniversary == "true" && !img.IsAnniversary {
			continue
		}
		if !access.Elevated && img.IsPrivate {
			continue
		}
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImageRepo) ListByAlbum(albumID uint, includePrivate bool) ([]models.Image, error) {
	var out []models.Image
	for _, img := range f.images {
		if img.AlbumID != albumID {
			continue
		}
		if !includePrivate && img.IsPrivate {
			continue
		}
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImageRepo) ListTodayInPast(month, day int, includePrivate bool) ([]models.Image, error) {
	return nil, nil
}
func (f *fakeImageRepo) Save(image *models.Image) error   { return nil }
func (f *fakeImageRepo) Move(imageID, albumID uint) error { return nil }
func (f *fakeImageRepo) Delete(id uint) error             { return nil }
func (f *fakeImageRepo) AddReaction(imageID uint, reaction string) (*models.Image, error) {
	return f.GetByID(imageID)
}
func (f *fakeImageRepo) AddLoveNote(note *models.LoveNote) error { return nil }
func (f *fakeImageRepo) CountByAlbumAndType(albumID uint, mediaType string) (int64, error) {
	return 0, nil
}
func (f *fakeImageRepo) ExistingIDs(ids []uint) (int, error) { return len(ids), nil }

// fakeAlbumRepo serves canned albums.
type fakeAlbumRepo struct {
	albums []models.Album
}

func (f *fakeAlbumRepo) Create(album *models.Album) error { return nil }

func (f *fakeAlbumRepo) GetByID(id uint) (*models.Album, error) {
	for i := range f.albums {
		if f.albums[i].ID == id {
			return &f.albums[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAlbumRepo) List(filter database.AlbumFilter, access database.Access) ([]models.Album, error) {
	return f.albums, nil
}

func (f *fakeAlbumRepo) ListWithCounts(filter database.AlbumFilter, access database.Access, hasVideo, hasImage string) ([]models.AlbumListing, error) {
	return nil, nil
}
func (f *fakeAlbumRepo) Save(album *models.Album) error      { return nil }
func (f *fakeAlbumRepo) DeleteCascade(id uint) error         { return nil }
func (f *fakeAlbumRepo) ExistingIDs(ids []uint) (int, error) { return len(ids), nil }

// fakeAnniversaryRepo serves canned anniversaries.
type fakeAnniversaryRepo struct {
	anns []models.Anniversary
}

func (f *fakeAnniversaryRepo) Create(ann *models.Anniversary) error { return nil }

func (f *fakeAnniversaryRepo) GetByID(id uint) (*models.Anniversary, error) {
	for i := range f.anns {
		if f.anns[i].ID == id {
			return &f.anns[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnniversaryRepo) List(filter database.AnniversaryFilter, access database.Access) ([]models.Anniversary, error) {
	var out []models.Anniversary
	for _, ann := range f.anns {
		if !access.Elevated && ann.IsPrivate {
			continue
		}
		out = append(out, ann)
	}
	return out, nil
}

func (f *fakeAnniversaryRepo) Save(ann *models.Anniversary) error { return nil }
func (f *fakeAnniversaryRepo) ReplaceLinks(ann *models.Anniversary, images []models.Image, albums []models.Album) error {
	return nil
}
func (f *fakeAnniversaryRepo) Delete(id uint) error { return nil }
