package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

// ImageRepository handles database operations for Image entities
type ImageRepository struct {
	DB *gorm.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

// Create inserts a new image record
func (r *ImageRepository) Create(image *models.Image) error {
	if image.Tags == nil {
		image.Tags = []string{}
	}
	if err := r.DB.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image %s: %w", image.PublicID, err)
	}
	return nil
}

// GetByID retrieves an image with its album and love notes
func (r *ImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	err := r.DB.Preload("Album").Preload("LoveNotes").First(&image, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get image by ID %d: %w", id, err)
	}
	return &image, nil
}

// List retrieves images matching the filter, most recently taken first with
// upload time as tie-breaker.
func (r *ImageRepository) List(filter database.ImageFilter, access database.Access) ([]models.Image, error) {
	where, args, err := database.ImageWhere(filter, access)
	if err != nil {
		return nil, err
	}

	q := r.DB.Model(&models.Image{}).Preload("Album")
	if where != "" {
		q = q.Where(where, args...)
	}

	var images []models.Image
	if err := q.Order("taken_at DESC").Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// ListByAlbum returns an album's images, optionally hiding private ones.
func (r *ImageRepository) ListByAlbum(albumID uint, includePrivate bool) ([]models.Image, error) {
	q := r.DB.Where("album_id = ?", albumID)
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}

	var images []models.Image
	if err := q.Order("taken_at DESC").Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images for album %d: %w", albumID, err)
	}
	return images, nil
}

// ListTodayInPast returns images whose taken-at date shares the given month
// and day, across all years.
func (r *ImageRepository) ListTodayInPast(month int, day int, includePrivate bool) ([]models.Image, error) {
	q := r.DB.Preload("Album").
		Where("taken_at IS NOT NULL").
		Where("CAST(strftime('%m', taken_at) AS INTEGER) = ?", month).
		Where("CAST(strftime('%d', taken_at) AS INTEGER) = ?", day)
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}

	var images []models.Image
	if err := q.Order("taken_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list today-in-past images: %w", err)
	}
	return images, nil
}

// Save persists all fields of an existing image
func (r *ImageRepository) Save(image *models.Image) error {
	if err := r.DB.Save(image).Error; err != nil {
		return fmt.Errorf("failed to save image ID %d: %w", image.ID, err)
	}
	return nil
}

// Move reassigns an image to another album
func (r *ImageRepository) Move(imageID, albumID uint) error {
	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Update("album_id", albumID)
	if result.Error != nil {
		return fmt.Errorf("failed to move image %d to album %d: %w", imageID, albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an image, its love notes and anniversary links
func (r *ImageRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&models.LoveNote{}).Error; err != nil {
			return fmt.Errorf("failed to delete love notes for image %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM anniversary_images WHERE image_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink image %d from anniversaries: %w", id, err)
		}
		result := tx.Delete(&models.Image{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete image %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddReaction atomically increments a reaction counter and returns the
// updated image.
func (r *ImageRepository) AddReaction(imageID uint, reaction string) (*models.Image, error) {
	var column string
	switch reaction {
	case "heart":
		column = "hearts"
	case "like":
		column = "likes"
	default:
		return nil, fmt.Errorf("unknown reaction %q", reaction)
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add %s reaction to image %d: %w", reaction, imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var image models.Image
	if err := r.DB.First(&image, imageID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload image %d: %w", imageID, err)
	}
	return &image, nil
}

// AddLoveNote appends a note to an image
func (r *ImageRepository) AddLoveNote(note *models.LoveNote) error {
	if err := r.DB.Create(note).Error; err != nil {
		return fmt.Errorf("failed to add love note to image %d: %w", note.ImageID, err)
	}
	return nil
}

// CountByAlbumAndType counts an album's media of one type
func (r *ImageRepository) CountByAlbumAndType(albumID uint, mediaType string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Image{}).
		Where("album_id = ? AND type = ?", albumID, mediaType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s media for album %d: %w", mediaType, albumID, err)
	}
	return count, nil
}

// ExistingIDs reports how many of the given image IDs exist.
func (r *ImageRepository) ExistingIDs(ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.DB.Model(&models.Image{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return int(count), nil
}
