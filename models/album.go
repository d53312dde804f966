package models

import "time"

// Album groups images and videos. Visibility is controlled by IsPublic and,
// independently, an optional plaintext access password that gates reads even
// for public albums.
type Album struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	CoverImage  *string    `json:"coverImage,omitempty"` // URL, usually a thumbnail of a member image
	Password    *string    `json:"-"`
	// no DB-side default: GORM drops zero-valued fields that carry a
	// default tag on insert, which would turn isPublic:false into true.
	// The handler supplies the true default instead.
	IsPublic    bool       `json:"isPublic" gorm:"not null"`
	Tags        []string   `json:"tags" gorm:"serializer:json"`
	EventDate   *time.Time `json:"eventDate,omitempty" gorm:"index"`
	Location    *string    `json:"location,omitempty"`
	CreatedByID uint       `json:"createdBy" gorm:"not null;index"`
	CreatedBy   *User      `json:"-" gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// HasPassword reports whether reads of this album require a password match.
func (a *Album) HasPassword() bool {
	return a.Password != nil && *a.Password != ""
}

// AlbumListing is an Album annotated with per-album media counts. The counts
// are derived per request from the images table and never stored.
type AlbumListing struct {
	Album
	ImageCount     int64 `json:"imageCount"`     // images + videos
	ImageOnlyCount int64 `json:"imageOnlyCount"` // still images only
	VideoCount     int64 `json:"videoCount"`
	HasVideo       bool  `json:"hasVideo"`
	HasImage       bool  `json:"hasImage"`
}
