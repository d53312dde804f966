package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

// AnniversaryRepository handles database operations for Anniversary entities
type AnniversaryRepository struct {
	DB *gorm.DB
}

// NewAnniversaryRepository creates a new instance of AnniversaryRepository
func NewAnniversaryRepository(db *gorm.DB) *AnniversaryRepository {
	return &AnniversaryRepository{DB: db}
}

// Create inserts a new anniversary with its image and album links
func (r *AnniversaryRepository) Create(ann *models.Anniversary) error {
	if ann.Tags == nil {
		ann.Tags = []string{}
	}
	if err := r.DB.Create(ann).Error; err != nil {
		return fmt.Errorf("failed to create anniversary %s: %w", ann.Title, err)
	}
	return nil
}

// GetByID retrieves an anniversary with linked images (and their albums) and albums
func (r *AnniversaryRepository) GetByID(id uint) (*models.Anniversary, error) {
	var ann models.Anniversary
	err := r.DB.Preload("Images").Preload("Images.Album").Preload("Albums").First(&ann, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get anniversary by ID %d: %w", id, err)
	}
	return &ann, nil
}

// List retrieves anniversaries matching the filter, ordered by anniversary
// date descending. Callers re-sort by the recomputed day count; the database
// order only provides a stable base.
func (r *AnniversaryRepository) List(filter database.AnniversaryFilter, access database.Access) ([]models.Anniversary, error) {
	where, args, err := database.AnniversaryWhere(filter, access)
	if err != nil {
		return nil, err
	}

	q := r.DB.Model(&models.Anniversary{}).
		Preload("Images").Preload("Images.Album").Preload("Albums")
	if where != "" {
		q = q.Where(where, args...)
	}

	var anns []models.Anniversary
	if err := q.Order("anniversary_date DESC").Find(&anns).Error; err != nil {
		return nil, fmt.Errorf("failed to list anniversaries: %w", err)
	}
	return anns, nil
}

// Save persists scalar fields of an existing anniversary. Association
// changes go through ReplaceLinks.
func (r *AnniversaryRepository) Save(ann *models.Anniversary) error {
	if err := r.DB.Omit("Images", "Albums").Save(ann).Error; err != nil {
		return fmt.Errorf("failed to save anniversary ID %d: %w", ann.ID, err)
	}
	return nil
}

// ReplaceLinks swaps the full sets of linked images and albums
func (r *AnniversaryRepository) ReplaceLinks(ann *models.Anniversary, images []models.Image, albums []models.Album) error {
	if images != nil {
		if err := r.DB.Model(ann).Association("Images").Replace(images); err != nil {
			return fmt.Errorf("failed to replace image links for anniversary %d: %w", ann.ID, err)
		}
	}
	if albums != nil {
		if err := r.DB.Model(ann).Association("Albums").Replace(albums); err != nil {
			return fmt.Errorf("failed to replace album links for anniversary %d: %w", ann.ID, err)
		}
	}
	return nil
}

// Delete removes an anniversary and its link rows
func (r *AnniversaryRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM anniversary_images WHERE anniversary_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink images from anniversary %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM anniversary_albums WHERE anniversary_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink albums from anniversary %d: %w", id, err)
		}
		result := tx.Delete(&models.Anniversary{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete anniversary %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
