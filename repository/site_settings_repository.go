package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/models"
)

// SiteSettingsRepository handles the settings singleton row
type SiteSettingsRepository struct {
	DB *gorm.DB
}

// NewSiteSettingsRepository creates a new instance of SiteSettingsRepository
func NewSiteSettingsRepository(db *gorm.DB) *SiteSettingsRepository {
	return &SiteSettingsRepository{DB: db}
}

// Get returns the settings row, creating it on first access.
func (r *SiteSettingsRepository) Get() (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := r.DB.First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}

	settings = models.SiteSettings{}
	if err := r.DB.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create site settings: %w", err)
	}
	return &settings, nil
}

// Save persists the settings row
func (r *SiteSettingsRepository) Save(settings *models.SiteSettings) error {
	if err := r.DB.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save site settings: %w", err)
	}
	return nil
}
