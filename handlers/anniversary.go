package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
	"github.com/ourmemories/memoriesbackend/repository"
)

// AnniversaryHandler serves anniversary CRUD and the day-grouped timeline.
type AnniversaryHandler struct {
	Anniversaries repository.AnniversaryRepositoryInterface
	Images        repository.ImageRepositoryInterface
	Albums        repository.AlbumRepositoryInterface
	Policy        *policy.Policy

	TrustExplicitVisibility bool
}

func NewAnniversaryHandler(anns repository.AnniversaryRepositoryInterface, images repository.ImageRepositoryInterface, albums repository.AlbumRepositoryInterface, pol *policy.Policy, trustVisibility bool) *AnniversaryHandler {
	return &AnniversaryHandler{
		Anniversaries:           anns,
		Images:                  images,
		Albums:                  albums,
		Policy:                  pol,
		TrustExplicitVisibility: trustVisibility,
	}
}

func (h *AnniversaryHandler) access(caller *policy.Identity) database.Access {
	return database.Access{
		Elevated:                h.Policy.HasElevatedAccess(caller),
		TrustExplicitVisibility: h.TrustExplicitVisibility,
	}
}

// refreshDays recomputes the elapsed-day cache from the anniversary date.
func refreshDays(ann *models.Anniversary, now time.Time) {
	ann.AnniversaryDays = policy.ElapsedDaysAt(ann.AnniversaryDate, now)
}

// scrubLinks drops private linked images and albums for callers without
// elevated access.
func (h *AnniversaryHandler) scrubLinks(ann *models.Anniversary, caller *policy.Identity) {
	if h.Policy.HasElevatedAccess(caller) {
		return
	}
	visibleImages := ann.Images[:0]
	for _, img := range ann.Images {
		if !img.IsPrivate {
			visibleImages = append(visibleImages, img)
		}
	}
	ann.Images = visibleImages

	visibleAlbums := ann.Albums[:0]
	for _, album := range ann.Albums {
		if album.IsPublic {
			visibleAlbums = append(visibleAlbums, album)
		}
	}
	ann.Albums = visibleAlbums
}

// List returns anniversaries ordered by elapsed days ascending; entries
// without a date sort last.
func (h *AnniversaryHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	q := r.URL.Query()
	filter := database.AnniversaryFilter{
		Search:    q.Get("search"),
		Year:      q.Get("year"),
		IsPrivate: q.Get("isPrivate"),
	}

	anns, err := h.Anniversaries.List(filter, h.access(caller))
	if err != nil {
		log.Printf("Error listing anniversaries: %v", err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	now := time.Now()
	for i := range anns {
		refreshDays(&anns[i], now)
		h.scrubLinks(&anns[i], caller)
	}
	sort.SliceStable(anns, func(i, j int) bool {
		di, dj := anns[i].AnniversaryDays, anns[j].AnniversaryDays
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	writeList(w, len(anns), anns)
}

// Timeline groups timeline-enabled anniversaries by their elapsed day
// count. Entries without a date land in the "null" bucket.
func (h *AnniversaryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	anns, err := h.Anniversaries.List(database.AnniversaryFilter{}, h.access(caller))
	if err != nil {
		log.Printf("Error listing anniversaries for timeline: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load anniversaries")
		return
	}

	now := time.Now()
	byDays := make(map[string][]models.Anniversary)
	total := 0
	for i := range anns {
		if !anns[i].ShowInTimeline {
			continue
		}
		refreshDays(&anns[i], now)
		h.scrubLinks(&anns[i], caller)
		key := "null"
		if anns[i].AnniversaryDays != nil {
			key = strconv.Itoa(*anns[i].AnniversaryDays)
		}
		byDays[key] = append(byDays[key], anns[i])
		total++
	}

	writeList(w, total, byDays)
}

// Get returns a single anniversary with its linked images and albums.
func (h *AnniversaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ann, err := h.fetch(w, id)
	if err != nil {
		return
	}
	if d := h.Policy.CanReadAnniversary(ann, caller); d != nil {
		WriteDenial(w, d)
		return
	}
	refreshDays(ann, time.Now())
	h.scrubLinks(ann, caller)
	writeData(w, http.StatusOK, ann)
}

type anniversaryRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	AnniversaryDate *string  `json:"anniversaryDate"`
	ImageIDs        []uint   `json:"images"`
	AlbumIDs        []uint   `json:"albums"`
	Tags            []string `json:"tags"`
	Location        *string  `json:"location"`
	IsPrivate       *bool    `json:"isPrivate"`
	ShowInTimeline  *bool    `json:"showInTimeline"`
}

// validateLinks checks that every referenced image and album exists. Link
// validation is all-or-nothing: one missing ID fails the whole request.
func (h *AnniversaryHandler) validateLinks(w http.ResponseWriter, imageIDs, albumIDs []uint) bool {
	if len(imageIDs) > 0 {
		found, err := h.Images.ExistingIDs(imageIDs)
		if err != nil {
			log.Printf("Error validating image links: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to validate image links")
			return false
		}
		if found != len(imageIDs) {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "one or more linked images do not exist")
			return false
		}
	}
	if len(albumIDs) > 0 {
		found, err := h.Albums.ExistingIDs(albumIDs)
		if err != nil {
			log.Printf("Error validating album links: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to validate album links")
			return false
		}
		if found != len(albumIDs) {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "one or more linked albums do not exist")
			return false
		}
	}
	return true
}

// linkModels maps ID lists to stub records for association replacement. A nil
// input stays nil so ReplaceLinks leaves that side untouched; an explicit
// empty list clears it.
func linkModels(imageIDs, albumIDs []uint) ([]models.Image, []models.Album) {
	var images []models.Image
	if imageIDs != nil {
		images = make([]models.Image, len(imageIDs))
		for i, id := range imageIDs {
			images[i] = models.Image{ID: id}
		}
	}
	var albums []models.Album
	if albumIDs != nil {
		albums = make([]models.Album, len(albumIDs))
		for i, id := range albumIDs {
			albums[i] = models.Album{ID: id}
		}
	}
	return images, albums
}

// Create makes a new anniversary owned by the caller.
func (h *AnniversaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	var req anniversaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil || *req.Title == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}
	if !h.validateLinks(w, req.ImageIDs, req.AlbumIDs) {
		return
	}

	ann := &models.Anniversary{
		Title:          *req.Title,
		Description:    req.Description,
		Tags:           req.Tags,
		Location:       req.Location,
		ShowInTimeline: true,
		CreatedByID:    caller.UserID,
	}
	if req.AnniversaryDate != nil && *req.AnniversaryDate != "" {
		t, err := database.ParseDate(*req.AnniversaryDate)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		ann.AnniversaryDate = &t
	}
	if req.IsPrivate != nil {
		ann.IsPrivate = *req.IsPrivate
	}
	if req.ShowInTimeline != nil {
		ann.ShowInTimeline = *req.ShowInTimeline
	}
	refreshDays(ann, time.Now())

	if err := h.Anniversaries.Create(ann); err != nil {
		log.Printf("Error creating anniversary: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create anniversary")
		return
	}
	if len(req.ImageIDs) > 0 || len(req.AlbumIDs) > 0 {
		images, albums := linkModels(req.ImageIDs, req.AlbumIDs)
		if err := h.Anniversaries.ReplaceLinks(ann, images, albums); err != nil {
			log.Printf("Error linking anniversary %d: %v", ann.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to link anniversary")
			return
		}
	}

	created, err := h.Anniversaries.GetByID(ann.ID)
	if err != nil {
		log.Printf("Error reloading anniversary %d: %v", ann.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load anniversary")
		return
	}
	refreshDays(created, time.Now())
	writeMessage(w, http.StatusCreated, "anniversary created", created)
}

// Update applies partial changes. Only the creator may update, even among
// elevated accounts.
func (h *AnniversaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ann, err := h.fetch(w, id)
	if err != nil {
		return
	}
	if d := h.Policy.CanWriteAnniversary(ann, caller); d != nil {
		WriteDenial(w, d)
		return
	}

	var req anniversaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title != nil {
		if *req.Title == "" {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "title cannot be empty")
			return
		}
		ann.Title = *req.Title
	}
	if req.Description != nil {
		ann.Description = req.Description
	}
	if req.Tags != nil {
		ann.Tags = req.Tags
	}
	if req.Location != nil {
		ann.Location = req.Location
	}
	if req.IsPrivate != nil {
		ann.IsPrivate = *req.IsPrivate
	}
	if req.ShowInTimeline != nil {
		ann.ShowInTimeline = *req.ShowInTimeline
	}
	if req.AnniversaryDate != nil {
		if *req.AnniversaryDate == "" {
			ann.AnniversaryDate = nil
		} else {
			t, err := database.ParseDate(*req.AnniversaryDate)
			if err != nil {
				WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
				return
			}
			ann.AnniversaryDate = &t
		}
	}
	refreshDays(ann, time.Now())

	// reference checks come before any persistence: a bad link rejects the
	// whole update, scalar changes included
	if req.ImageIDs != nil || req.AlbumIDs != nil {
		if !h.validateLinks(w, req.ImageIDs, req.AlbumIDs) {
			return
		}
	}

	if err := h.Anniversaries.Save(ann); err != nil {
		log.Printf("Error updating anniversary %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update anniversary")
		return
	}

	if req.ImageIDs != nil || req.AlbumIDs != nil {
		images, albums := linkModels(req.ImageIDs, req.AlbumIDs)
		if err := h.Anniversaries.ReplaceLinks(ann, images, albums); err != nil {
			log.Printf("Error relinking anniversary %d: %v", id, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update links")
			return
		}
	}

	updated, err := h.Anniversaries.GetByID(id)
	if err != nil {
		log.Printf("Error reloading anniversary %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load anniversary")
		return
	}
	refreshDays(updated, time.Now())
	writeMessage(w, http.StatusOK, "anniversary updated", updated)
}

// Delete removes an anniversary. Only the creator may delete it.
func (h *AnniversaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ann, err := h.fetch(w, id)
	if err != nil {
		return
	}
	if d := h.Policy.CanWriteAnniversary(ann, caller); d != nil {
		WriteDenial(w, d)
		return
	}

	if err := h.Anniversaries.Delete(id); err != nil {
		log.Printf("Error deleting anniversary %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to delete anniversary")
		return
	}
	writeMessage(w, http.StatusOK, "anniversary deleted", nil)
}

func (h *AnniversaryHandler) fetch(w http.ResponseWriter, id uint) (*models.Anniversary, error) {
	ann, err := h.Anniversaries.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "anniversary not found")
			return nil, err
		}
		log.Printf("Error fetching anniversary %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load anniversary")
		return nil, err
	}
	return ann, nil
}
