package models

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Image is a single uploaded photo or video. The binary lives on the media
// host; this record keeps the host's public ID plus the resolved URLs.
type Image struct {
	ID           uint     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	URL          string   `json:"url" gorm:"not null"`
	ThumbnailURL string   `json:"thumbnailUrl" gorm:"not null"`
	PublicID     string   `json:"publicId" gorm:"not null;uniqueIndex"`
	Type         string   `json:"type" gorm:"not null;default:image"` // image or video
	Duration     *float64 `json:"duration,omitempty"`                 // video duration in seconds

	AlbumID uint     `json:"album" gorm:"not null;index:idx_images_album_created"`
	Album   *Album   `json:"-" gorm:"foreignKey:AlbumID"`
	Tags    []string `json:"tags" gorm:"serializer:json"`

	TakenAt  *time.Time `json:"takenAt,omitempty" gorm:"index"`
	Location *string    `json:"location,omitempty"`

	// upload metadata reported by the media host / EXIF
	Width  *int    `json:"width,omitempty"`
	Height *int    `json:"height,omitempty"`
	Format *string `json:"format,omitempty"`
	Size   *int64  `json:"size,omitempty"`

	Hearts    int        `json:"hearts" gorm:"not null;default:0"`
	Likes     int        `json:"likes" gorm:"not null;default:0"`
	LoveNotes []LoveNote `json:"loveNotes,omitempty" gorm:"foreignKey:ImageID"`

	IsPrivate     bool `json:"isPrivate" gorm:"not null;default:false;index"`
	IsAnniversary bool `json:"isAnniversary" gorm:"not null;default:false"`

	AnniversaryDate *time.Time `json:"anniversaryDate,omitempty"`
	// AnniversaryDays is a cached signed day count (negative = past,
	// positive = future). It is recomputed from AnniversaryDate at read
	// time and must never be trusted as stored truth.
	AnniversaryDays *int `json:"anniversaryDays,omitempty"`

	UploadedByID uint      `json:"uploadedBy" gorm:"not null"`
	UploadedBy   *User     `json:"-" gorm:"foreignKey:UploadedByID"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index:idx_images_album_created"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (Image) TableName() string {
	return "images"
}

// IsVideo reports whether the record is a video upload.
func (i *Image) IsVideo() bool {
	return i.Type == MediaTypeVideo
}

// DisplayDate is the date used for timeline placement: TakenAt when known,
// upload time otherwise.
func (i *Image) DisplayDate() time.Time {
	if i.TakenAt != nil {
		return *i.TakenAt
	}
	return i.CreatedAt
}

// LoveNote is a short note attached to an image.
type LoveNote struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ImageID   uint      `json:"-" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName explicitly sets the table name for GORM.
func (LoveNote) TableName() string {
	return "love_notes"
}
