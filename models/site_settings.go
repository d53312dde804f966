package models

import "time"

// SiteSettings is a singleton row holding site-wide presentation settings.
type SiteSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	BackgroundImageURL *string   `json:"backgroundImageUrl,omitempty"`
	UpdatedByID        *uint     `json:"updatedBy,omitempty"`
	UpdatedBy          *User     `json:"-" gorm:"foreignKey:UpdatedByID"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (SiteSettings) TableName() string {
	return "site_settings"
}
