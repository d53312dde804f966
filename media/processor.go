package media

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Processor ingests raw uploads into the Store: it persists the original,
// derives a square thumbnail and collects metadata.
type Processor struct {
	store     Store
	thumbSize int
}

// NewProcessor creates a media processor backed by the given store
func NewProcessor(store Store, thumbSize int) *Processor {
	return &Processor{store: store, thumbSize: thumbSize}
}

// Store exposes the backing store, mainly for URL resolution.
func (p *Processor) Store() Store {
	return p.store
}

// Ingest validates and stores one upload that has been spooled to tempPath.
// Returns the asset descriptor used to build the Image record.
func (p *Processor) Ingest(tempPath, originalName, contentType string, size int64) (*Asset, error) {
	kind, err := ValidateUpload(originalName, contentType)
	if err != nil {
		return nil, err
	}

	ext := Ext(originalName)
	folder := imageFolder
	if kind == TypeVideo {
		folder = videoFolder
	}
	publicID := folder + "/" + uuid.New().String()
	originalRel := OriginalPath(publicID, ext)

	original, err := os.Open(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", originalName, err)
	}
	defer original.Close()

	if err := p.store.Save(originalRel, contentType, original); err != nil {
		return nil, fmt.Errorf("failed to store original for %s: %w", originalName, err)
	}

	asset := &Asset{
		PublicID: publicID,
		Type:     kind,
		URL:      p.store.PublicURL(originalRel),
		Format:   &ext,
		Size:     &size,
	}

	if kind == TypeVideo {
		p.ingestVideo(tempPath, publicID, asset)
	} else {
		p.ingestImage(tempPath, publicID, asset)
	}

	// fall back to the original when no thumbnail could be derived
	if asset.ThumbnailURL == "" {
		asset.ThumbnailURL = asset.URL
	}
	return asset, nil
}

func (p *Processor) ingestImage(tempPath, publicID string, asset *Asset) {
	if takenAt, err := ExtractTakenAt(tempPath); err == nil && takenAt != nil {
		asset.TakenAt = takenAt
	}

	img, err := imaging.Open(tempPath, imaging.AutoOrientation(true))
	if err != nil {
		// HEIC and friends are stored as-is; the client gets the original
		log.Printf("media: could not decode %s for thumbnailing: %v", tempPath, err)
		return
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	asset.Width = &w
	asset.Height = &h

	p.saveThumb(img, publicID, asset)
}

// ingestVideo grabs the first frame as the poster image and reads the
// duration from the container.
func (p *Processor) ingestVideo(tempPath, publicID string, asset *Asset) {
	capture, err := gocv.VideoCaptureFile(tempPath)
	if err != nil {
		log.Printf("media: could not open video %s: %v", tempPath, err)
		return
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	frames := capture.Get(gocv.VideoCaptureFrameCount)
	if fps > 0 && frames > 0 {
		duration := frames / fps
		asset.Duration = &duration
	}

	frame := gocv.NewMat()
	defer frame.Close()
	if ok := capture.Read(&frame); !ok || frame.Empty() {
		log.Printf("media: could not read first frame of %s", tempPath)
		return
	}

	img, err := frame.ToImage()
	if err != nil {
		log.Printf("media: could not convert frame of %s: %v", tempPath, err)
		return
	}

	w, h := frame.Cols(), frame.Rows()
	asset.Width = &w
	asset.Height = &h

	p.saveThumb(img, publicID, asset)
}

func (p *Processor) saveThumb(img image.Image, publicID string, asset *Asset) {
	thumb := imaging.Fill(img, p.thumbSize, p.thumbSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		log.Printf("media: failed to encode thumbnail for %s: %v", publicID, err)
		return
	}

	thumbRel := ThumbPath(publicID)
	if err := p.store.Save(thumbRel, "image/jpeg", &buf); err != nil {
		log.Printf("media: failed to store thumbnail for %s: %v", publicID, err)
		return
	}
	asset.ThumbnailURL = p.store.PublicURL(thumbRel)
}

// Remove deletes an asset's original and thumbnail from the store.
func (p *Processor) Remove(publicID string, format *string) {
	ext := ""
	if format != nil {
		ext = *format
	}
	if err := p.store.Delete(OriginalPath(publicID, ext)); err != nil {
		log.Printf("media: failed to delete original for %s: %v", publicID, err)
	}
	if err := p.store.Delete(ThumbPath(publicID)); err != nil {
		log.Printf("media: failed to delete thumbnail for %s: %v", publicID, err)
	}
}
