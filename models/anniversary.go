package models

import "time"

// Anniversary is a tracked date with linked images and albums. The stored
// AnniversaryDays is a cache of the elapsed-day count (clamped at zero for
// future dates); readers always recompute it from AnniversaryDate.
type Anniversary struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string  `json:"title" gorm:"not null"`
	Description *string `json:"description,omitempty"`

	AnniversaryDate *time.Time `json:"anniversaryDate,omitempty" gorm:"index"`
	AnniversaryDays *int       `json:"anniversaryDays,omitempty"`

	Images []Image `json:"images,omitempty" gorm:"many2many:anniversary_images;"`
	Albums []Album `json:"albums,omitempty" gorm:"many2many:anniversary_albums;"`

	Tags     []string `json:"tags" gorm:"serializer:json"`
	Location *string  `json:"location,omitempty"`

	IsPrivate bool `json:"isPrivate" gorm:"not null;default:false;index"`
	// no DB-side default, same insert-drops-zero-value trap as
	// Album.IsPublic; the handler defaults this to true.
	ShowInTimeline bool `json:"showInTimeline" gorm:"not null"`

	CreatedByID uint      `json:"createdBy" gorm:"not null"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (Anniversary) TableName() string {
	return "anniversaries"
}
