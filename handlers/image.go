package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/media"
	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
	"github.com/ourmemories/memoriesbackend/repository"
)

// ImageHandler serves image CRUD, uploads, timelines, reactions and notes.
type ImageHandler struct {
	Images    repository.ImageRepositoryInterface
	Albums    repository.AlbumRepositoryInterface
	Policy    *policy.Policy
	Processor *media.Processor

	TrustExplicitVisibility bool
	MaxUploadBytes          int64
}

func NewImageHandler(images repository.ImageRepositoryInterface, albums repository.AlbumRepositoryInterface, pol *policy.Policy, proc *media.Processor, trustVisibility bool, maxUpload int64) *ImageHandler {
	return &ImageHandler{
		Images:                  images,
		Albums:                  albums,
		Policy:                  pol,
		Processor:               proc,
		TrustExplicitVisibility: trustVisibility,
		MaxUploadBytes:          maxUpload,
	}
}

func (h *ImageHandler) access(caller *policy.Identity) database.Access {
	return database.Access{
		Elevated:                h.Policy.HasElevatedAccess(caller),
		TrustExplicitVisibility: h.TrustExplicitVisibility,
	}
}

func (h *ImageHandler) filterFromQuery(r *http.Request) database.ImageFilter {
	q := r.URL.Query()
	return database.ImageFilter{
		AlbumID:     q.Get("album"),
		Tag:         q.Get("tag"),
		Search:      q.Get("search"),
		Anniversary: q.Get("isAnniversary"),
		Year:        q.Get("year"),
		Month:       q.Get("month"),
		IsPrivate:   q.Get("isPrivate"),
	}
}

// List returns images newest first, filtered per the query string. Filtering
// by album runs the album's own visibility gate first.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	filter := h.filterFromQuery(r)

	if filter.AlbumID != "" {
		albumID, convErr := strconv.ParseUint(filter.AlbumID, 10, 32)
		if convErr != nil {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid album id: "+filter.AlbumID)
			return
		}
		album, err := h.Albums.GetByID(uint(albumID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				WriteAPIError(w, http.StatusNotFound, "not_found", "album not found")
				return
			}
			log.Printf("Error fetching album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load album")
			return
		}
		if d := h.Policy.CanReadAlbum(album, caller, r.URL.Query().Get("password")); d != nil {
			WriteDenial(w, d)
			return
		}
	}

	images, err := h.Images.List(filter, h.access(caller))
	if err != nil {
		log.Printf("Error listing images: %v", err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	writeList(w, len(images), images)
}

type timelineGroup struct {
	Month  string         `json:"month"` // YYYY-MM
	Images []models.Image `json:"images"`
}

// Timeline groups images by calendar month of their display date (taken-at
// when known, upload time otherwise), newest month first.
func (h *ImageHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	images, err := h.Images.List(h.filterFromQuery(r), h.access(caller))
	if err != nil {
		log.Printf("Error listing images for timeline: %v", err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	byMonth := make(map[string][]models.Image)
	for _, img := range images {
		key := img.DisplayDate().Format("2006-01")
		byMonth[key] = append(byMonth[key], img)
	}

	groups := make([]timelineGroup, 0, len(byMonth))
	for month, imgs := range byMonth {
		groups = append(groups, timelineGroup{Month: month, Images: imgs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Month > groups[j].Month })

	writeList(w, len(images), groups)
}

type anniversaryImageGroup struct {
	Days   int            `json:"days"` // signed: negative = past, positive = future
	Images []models.Image `json:"images"`
}

// AnniversaryTimeline groups anniversary images by their signed day count.
// The count is always recomputed from the anniversary date; the stored value
// is only a cache. Images without an anniversary date are skipped.
func (h *ImageHandler) AnniversaryTimeline(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	filter := h.filterFromQuery(r)
	filter.Anniversary = "true"

	images, err := h.Images.List(filter, h.access(caller))
	if err != nil {
		log.Printf("Error listing anniversary images: %v", err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	now := time.Now()
	byDays := make(map[int][]models.Image)
	total := 0
	for _, img := range images {
		days := policy.SignedDaysAt(img.AnniversaryDate, now)
		if days == nil {
			continue
		}
		img.AnniversaryDays = days
		byDays[*days] = append(byDays[*days], img)
		total++
	}

	groups := make([]anniversaryImageGroup, 0, len(byDays))
	for days, imgs := range byDays {
		groups = append(groups, anniversaryImageGroup{Days: days, Images: imgs})
	}
	// soonest upcoming first, then most recent past
	sort.Slice(groups, func(i, j int) bool { return groups[i].Days > groups[j].Days })

	writeList(w, total, groups)
}

// TodayInPast returns images taken on today's month and day in earlier
// years.
func (h *ImageHandler) TodayInPast(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	now := time.Now()
	images, err := h.Images.ListTodayInPast(int(now.Month()), now.Day(), h.Policy.HasElevatedAccess(caller))
	if err != nil {
		log.Printf("Error listing today-in-past images: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load images")
		return
	}
	writeList(w, len(images), images)
}

// Get returns a single image with its love notes.
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	image, err := h.fetch(w, id)
	if err != nil {
		return
	}
	if d := h.Policy.CanReadImage(image, image.Album, caller); d != nil {
		WriteDenial(w, d)
		return
	}
	writeData(w, http.StatusOK, image)
}

// Upload ingests one or more files into an album. Each file is validated,
// stored on the media host and recorded. The first successful upload becomes
// the album cover when the album has none.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid multipart form: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	albumIDRaw := r.FormValue("albumId")
	albumID, err := strconv.ParseUint(albumIDRaw, 10, 32)
	if err != nil || albumID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "albumId is required")
		return
	}
	album, err := h.Albums.GetByID(uint(albumID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "album not found")
			return
		}
		log.Printf("Error fetching album %d: %v", albumID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load album")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["images"]
	}
	if len(files) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "no files uploaded")
		return
	}

	isPrivate := r.FormValue("isPrivate") == "true"
	var location *string
	if loc := r.FormValue("location"); loc != "" {
		location = &loc
	}
	tags := r.MultipartForm.Value["tags"]

	var formTakenAt *time.Time
	if raw := r.FormValue("takenAt"); raw != "" {
		t, err := database.ParseDate(raw)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		formTakenAt = &t
	}
	uploadTime := time.Now()

	var created []models.Image
	for _, header := range files {
		asset, err := ingestUploadedFile(h.Processor, header)
		if err != nil {
			log.Printf("Error ingesting %s: %v", header.Filename, err)
			WriteAPIError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("%s: %v", header.Filename, err))
			return
		}

		image := models.Image{
			URL:          asset.URL,
			ThumbnailURL: asset.ThumbnailURL,
			PublicID:     asset.PublicID,
			Type:         asset.Type,
			Duration:     asset.Duration,
			AlbumID:      album.ID,
			Tags:         tags,
			TakenAt:      uploadTakenAt(formTakenAt, asset.TakenAt, uploadTime),
			Location:     location,
			Width:        asset.Width,
			Height:       asset.Height,
			Format:       asset.Format,
			Size:         asset.Size,
			IsPrivate:    isPrivate,
			UploadedByID: caller.UserID,
		}
		if title := r.FormValue("title"); title != "" {
			image.Title = &title
		}
		if desc := r.FormValue("description"); desc != "" {
			image.Description = &desc
		}

		if err := h.Images.Create(&image); err != nil {
			log.Printf("Error saving image record %s: %v", asset.PublicID, err)
			h.Processor.Remove(asset.PublicID, asset.Format)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to save image")
			return
		}
		created = append(created, image)
	}

	// auto-set the album cover from the first upload
	if album.CoverImage == nil || *album.CoverImage == "" {
		cover := created[0].ThumbnailURL
		if cover == "" {
			cover = created[0].URL
		}
		album.CoverImage = &cover
		if err := h.Albums.Save(album); err != nil {
			log.Printf("Error setting album cover %d: %v", album.ID, err)
		}
	}

	count := len(created)
	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: fmt.Sprintf("%d file(s) uploaded", count),
		Count:   &count,
		Data:    created,
	})
}

// uploadTakenAt picks the taken-at date for a new upload: the client-supplied
// value wins, then EXIF, then the upload time itself, so the year and month
// filters always have something to match.
func uploadTakenAt(supplied, exif *time.Time, now time.Time) *time.Time {
	if supplied != nil {
		return supplied
	}
	if exif != nil {
		return exif
	}
	return &now
}

type imageUpdateRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Tags            []string `json:"tags"`
	Location        *string  `json:"location"`
	TakenAt         *string  `json:"takenAt"`
	IsPrivate       *bool    `json:"isPrivate"`
	IsAnniversary   *bool    `json:"isAnniversary"`
	AnniversaryDate *string  `json:"anniversaryDate"`
}

// Update applies partial changes to an image record. Marking an image as an
// anniversary recomputes its cached signed day count from the anniversary
// date, falling back to the taken-at date; unmarking clears both.
func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	image, err := h.fetch(w, id)
	if err != nil {
		return
	}

	var req imageUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title != nil {
		image.Title = req.Title
	}
	if req.Description != nil {
		image.Description = req.Description
	}
	if req.Tags != nil {
		image.Tags = req.Tags
	}
	if req.Location != nil {
		image.Location = req.Location
	}
	if req.TakenAt != nil {
		if *req.TakenAt == "" {
			image.TakenAt = nil
		} else {
			t, err := database.ParseDate(*req.TakenAt)
			if err != nil {
				WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
				return
			}
			image.TakenAt = &t
		}
	}
	if req.IsPrivate != nil {
		image.IsPrivate = *req.IsPrivate
	}
	if req.AnniversaryDate != nil {
		if *req.AnniversaryDate == "" {
			image.AnniversaryDate = nil
		} else {
			t, err := database.ParseDate(*req.AnniversaryDate)
			if err != nil {
				WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
				return
			}
			image.AnniversaryDate = &t
		}
	}
	if req.IsAnniversary != nil {
		image.IsAnniversary = *req.IsAnniversary
	}
	if image.IsAnniversary {
		if image.AnniversaryDate == nil {
			image.AnniversaryDate = image.TakenAt
		}
		image.AnniversaryDays = policy.SignedDays(image.AnniversaryDate)
	} else {
		image.AnniversaryDate = nil
		image.AnniversaryDays = nil
	}

	if err := h.Images.Save(image); err != nil {
		log.Printf("Error updating image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update image")
		return
	}
	writeMessage(w, http.StatusOK, "image updated", image)
}

type moveRequest struct {
	AlbumID uint `json:"albumId"`
}

// Move reassigns an image to another album.
func (h *ImageHandler) Move(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	image, err := h.fetch(w, id)
	if err != nil {
		return
	}

	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AlbumID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "albumId is required")
		return
	}
	if _, err := h.Albums.GetByID(req.AlbumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "destination album not found")
			return
		}
		log.Printf("Error fetching album %d: %v", req.AlbumID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load album")
		return
	}

	if err := h.Images.Move(image.ID, req.AlbumID); err != nil {
		log.Printf("Error moving image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to move image")
		return
	}
	image.AlbumID = req.AlbumID
	writeMessage(w, http.StatusOK, "image moved", image)
}

// Delete removes the record, its notes and the stored media.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	image, err := h.fetch(w, id)
	if err != nil {
		return
	}

	if err := h.Images.Delete(image.ID); err != nil {
		log.Printf("Error deleting image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to delete image")
		return
	}
	h.Processor.Remove(image.PublicID, image.Format)
	writeMessage(w, http.StatusOK, "image deleted", nil)
}

type reactRequest struct {
	Type string `json:"type"` // heart or like
}

// React increments a reaction counter. Anyone may react; no account needed.
func (h *ImageHandler) React(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req reactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type != "heart" && req.Type != "like" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "type must be heart or like")
		return
	}

	image, err := h.Images.AddReaction(id, req.Type)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "image not found")
			return
		}
		log.Printf("Error reacting to image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to save reaction")
		return
	}
	writeData(w, http.StatusOK, image)
}

type loveNoteRequest struct {
	Content string `json:"content"`
}

// LoveNote attaches a short note to an image. Anyone may leave one.
func (h *ImageHandler) LoveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req loveNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "content is required")
		return
	}

	if _, err := h.fetch(w, id); err != nil {
		return
	}
	note := &models.LoveNote{ImageID: id, Content: req.Content}
	if err := h.Images.AddLoveNote(note); err != nil {
		log.Printf("Error saving love note for image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to save note")
		return
	}
	writeMessage(w, http.StatusCreated, "note added", note)
}

func (h *ImageHandler) fetch(w http.ResponseWriter, id uint) (*models.Image, error) {
	image, err := h.Images.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "image not found")
			return nil, err
		}
		log.Printf("Error fetching image %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load image")
		return nil, err
	}
	return image, nil
}
