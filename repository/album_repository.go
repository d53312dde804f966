package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	if album.Tags == nil {
		album.Tags = []string{}
	}
	if err := r.DB.Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Title, err)
	}
	return nil
}

// GetByID retrieves an album by its ID
func (r *AlbumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// List retrieves albums matching the filter, newest first.
func (r *AlbumRepository) List(filter database.AlbumFilter, access database.Access) ([]models.Album, error) {
	where, args, err := database.AlbumWhere(filter, access)
	if err != nil {
		return nil, err
	}

	q := r.DB.Model(&models.Album{})
	if where != "" {
		q = q.Where(where, args...)
	}

	var albums []models.Album
	if err := q.Order("created_at DESC").Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// ListWithCounts lists albums annotated with per-album media counts and
// applies the hasVideo/hasImage tri-state filters. Those are post-query by
// necessity: they depend on aggregated child counts, not stored fields.
func (r *AlbumRepository) ListWithCounts(filter database.AlbumFilter, access database.Access, hasVideo, hasImage string) ([]models.AlbumListing, error) {
	albums, err := r.List(filter, access)
	if err != nil {
		return nil, err
	}

	listings := make([]models.AlbumListing, 0, len(albums))
	for _, album := range albums {
		var imageCount, videoCount int64
		err := r.DB.Model(&models.Image{}).
			Where("album_id = ? AND type = ?", album.ID, models.MediaTypeImage).
			Count(&imageCount).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count images for album %d: %w", album.ID, err)
		}
		err = r.DB.Model(&models.Image{}).
			Where("album_id = ? AND type = ?", album.ID, models.MediaTypeVideo).
			Count(&videoCount).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count videos for album %d: %w", album.ID, err)
		}

		if hasVideo == "true" && videoCount == 0 {
			continue
		}
		if hasVideo == "false" && videoCount > 0 {
			continue
		}
		if hasImage == "true" && imageCount == 0 {
			continue
		}
		if hasImage == "false" && imageCount > 0 {
			continue
		}

		listings = append(listings, models.AlbumListing{
			Album:          album,
			ImageCount:     imageCount + videoCount,
			ImageOnlyCount: imageCount,
			VideoCount:     videoCount,
			HasVideo:       videoCount > 0,
			HasImage:       imageCount > 0,
		})
	}
	return listings, nil
}

// Save persists all fields of an existing album
func (r *AlbumRepository) Save(album *models.Album) error {
	if err := r.DB.Save(album).Error; err != nil {
		return fmt.Errorf("failed to save album ID %d: %w", album.ID, err)
	}
	return nil
}

// DeleteCascade removes an album and everything hanging off it: love notes
// of its images, anniversary links to those images, the images themselves,
// then the album. Runs in a transaction; the storage layer offers no
// cross-request atomicity beyond this.
func (r *AlbumRepository) DeleteCascade(id uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		imageIDs := tx.Model(&models.Image{}).Select("id").Where("album_id = ?", id)

		if err := tx.Where("image_id IN (?)", imageIDs).Delete(&models.LoveNote{}).Error; err != nil {
			return fmt.Errorf("failed to delete love notes: %w", err)
		}
		if err := tx.Exec("DELETE FROM anniversary_images WHERE image_id IN (?)", imageIDs).Error; err != nil {
			return fmt.Errorf("failed to unlink anniversary images: %w", err)
		}
		if err := tx.Exec("DELETE FROM anniversary_albums WHERE album_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink anniversary albums: %w", err)
		}
		if err := tx.Where("album_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}

		result := tx.Delete(&models.Album{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete album: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to delete album ID %d: %w", id, err)
	}
	return err
}

// ExistingIDs reports how many of the given album IDs exist.
func (r *AlbumRepository) ExistingIDs(ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.DB.Model(&models.Album{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return int(count), nil
}
