package media

import "time"

const (
	TypeImage = "image"
	TypeVideo = "video"
)

const (
	imageFolder = "memories/images"
	videoFolder = "memories/videos"
)

// Asset is the result of ingesting one upload: the stable public ID plus the
// resolved URLs and whatever metadata could be extracted.
type Asset struct {
	PublicID     string
	Type         string
	URL          string
	ThumbnailURL string
	Width        *int
	Height       *int
	Format       *string
	Size         *int64
	Duration     *float64 // seconds, videos only
	TakenAt      *time.Time
}

// OriginalPath returns the storage-relative path of an asset's original file.
func OriginalPath(publicID, format string) string {
	if format == "" {
		return publicID
	}
	return publicID + "." + format
}

// ThumbPath returns the storage-relative path of an asset's thumbnail.
func ThumbPath(publicID string) string {
	return publicID + "_thumb.jpg"
}
