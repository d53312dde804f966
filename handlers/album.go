package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/media"
	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
	"github.com/ourmemories/memoriesbackend/repository"
)

// AlbumHandler serves album CRUD and cover management.
type AlbumHandler struct {
	Albums    repository.AlbumRepositoryInterface
	Images    repository.ImageRepositoryInterface
	Policy    *policy.Policy
	Processor *media.Processor

	// TrustExplicitVisibility mirrors the config flag of the same name.
	TrustExplicitVisibility bool
	MaxUploadBytes          int64
}

func NewAlbumHandler(albums repository.AlbumRepositoryInterface, images repository.ImageRepositoryInterface, pol *policy.Policy, proc *media.Processor, trustVisibility bool, maxUpload int64) *AlbumHandler {
	return &AlbumHandler{
		Albums:                  albums,
		Images:                  images,
		Policy:                  pol,
		Processor:               proc,
		TrustExplicitVisibility: trustVisibility,
		MaxUploadBytes:          maxUpload,
	}
}

func (h *AlbumHandler) access(caller *policy.Identity) database.Access {
	return database.Access{
		Elevated:                h.Policy.HasElevatedAccess(caller),
		TrustExplicitVisibility: h.TrustExplicitVisibility,
	}
}

// List returns albums annotated with media counts, filtered and sorted per
// the query string.
func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	q := r.URL.Query()

	filter := database.AlbumFilter{
		Search:    q.Get("search"),
		Tag:       q.Get("tag"),
		Year:      q.Get("year"),
		IsPublic:  q.Get("isPublic"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = database.DefaultAlbumSort
	}
	if !database.IsValidAlbumSort(sortKey) {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid sort: "+sortKey)
		return
	}

	listings, err := h.Albums.ListWithCounts(filter, h.access(caller), q.Get("hasVideo"), q.Get("hasImage"))
	if err != nil {
		log.Printf("Error listing albums: %v", err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	switch sortKey {
	case database.SortCreatedAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.Before(listings[j].CreatedAt)
		})
	case database.SortTitleNat:
		sort.SliceStable(listings, func(i, j int) bool {
			return natsort.Compare(listings[i].Title, listings[j].Title)
		})
	}

	writeList(w, len(listings), listings)
}

type albumDetail struct {
	models.Album
	Images []models.Image `json:"images"`
}

// Get returns a single album with its member images. Private members are
// only included for elevated callers.
func (h *AlbumHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	album, err := h.fetch(w, id)
	if err != nil {
		return
	}
	if d := h.Policy.CanReadAlbum(album, caller, r.URL.Query().Get("password")); d != nil {
		WriteDenial(w, d)
		return
	}

	images, err := h.Images.ListByAlbum(album.ID, h.Policy.HasElevatedAccess(caller))
	if err != nil {
		log.Printf("Error listing images for album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load album images")
		return
	}
	writeData(w, http.StatusOK, albumDetail{Album: *album, Images: images})
}

type albumRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	IsPublic    *bool    `json:"isPublic"`
	Password    *string  `json:"password"`
	Tags        []string `json:"tags"`
	EventDate   *string  `json:"eventDate"`
	Location    *string  `json:"location"`
}

// Create makes a new album owned by the caller.
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	var req albumRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil || *req.Title == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	album := &models.Album{
		Title:       *req.Title,
		Description: req.Description,
		IsPublic:    true,
		Tags:        req.Tags,
		Location:    req.Location,
		CreatedByID: caller.UserID,
	}
	if req.IsPublic != nil {
		album.IsPublic = *req.IsPublic
	}
	if req.Password != nil && *req.Password != "" {
		album.Password = req.Password
	}
	if req.EventDate != nil && *req.EventDate != "" {
		t, err := database.ParseDate(*req.EventDate)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		album.EventDate = &t
	}

	if err := h.Albums.Create(album); err != nil {
		log.Printf("Error creating album: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to create album")
		return
	}
	writeMessage(w, http.StatusCreated, "album created", album)
}

// Update applies partial changes to an album.
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	album, err := h.fetch(w, id)
	if err != nil {
		return
	}

	var req albumRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title != nil {
		if *req.Title == "" {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "title cannot be empty")
			return
		}
		album.Title = *req.Title
	}
	if req.Description != nil {
		album.Description = req.Description
	}
	if req.IsPublic != nil {
		album.IsPublic = *req.IsPublic
	}
	if req.Password != nil {
		if *req.Password == "" {
			album.Password = nil
		} else {
			album.Password = req.Password
		}
	}
	if req.Tags != nil {
		album.Tags = req.Tags
	}
	if req.Location != nil {
		album.Location = req.Location
	}
	if req.EventDate != nil {
		if *req.EventDate == "" {
			album.EventDate = nil
		} else {
			t, err := database.ParseDate(*req.EventDate)
			if err != nil {
				WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
				return
			}
			album.EventDate = &t
		}
	}

	if err := h.Albums.Save(album); err != nil {
		log.Printf("Error updating album %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update album")
		return
	}
	writeMessage(w, http.StatusOK, "album updated", album)
}

type coverRequest struct {
	ImageID uint `json:"imageId"`
}

// UpdateCover sets the album cover, either from a member image (JSON body
// with imageId) or from a directly uploaded file (multipart form).
func (h *AlbumHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	album, err := h.fetch(w, id)
	if err != nil {
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.coverFromUpload(w, r, album)
		return
	}

	var req coverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ImageID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "imageId is required")
		return
	}
	image, err := h.Images.GetByID(req.ImageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "image not found")
			return
		}
		log.Printf("Error fetching image %d: %v", req.ImageID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load image")
		return
	}
	if image.AlbumID != album.ID {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "image does not belong to this album")
		return
	}

	cover := image.ThumbnailURL
	if cover == "" {
		cover = image.URL
	}
	album.CoverImage = &cover
	if err := h.Albums.Save(album); err != nil {
		log.Printf("Error saving album cover %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update cover")
		return
	}
	writeMessage(w, http.StatusOK, "cover updated", album)
}

func (h *AlbumHandler) coverFromUpload(w http.ResponseWriter, r *http.Request, album *models.Album) {
	asset, cleanup, ok := ingestSingleFile(w, r, "cover", h.Processor, h.MaxUploadBytes)
	if !ok {
		return
	}
	defer cleanup()

	if asset.Type != media.TypeImage {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "album covers must be images")
		return
	}
	cover := asset.ThumbnailURL
	if cover == "" {
		cover = asset.URL
	}
	album.CoverImage = &cover
	if err := h.Albums.Save(album); err != nil {
		log.Printf("Error saving album cover %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update cover")
		return
	}
	writeMessage(w, http.StatusOK, "cover updated", album)
}

// Delete removes an album, its images, their notes and the stored media.
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	images, err := h.Images.ListByAlbum(id, true)
	if err != nil {
		log.Printf("Error listing images for album %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to delete album")
		return
	}

	if err := h.Albums.DeleteCascade(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "album not found")
			return
		}
		log.Printf("Error deleting album %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to delete album")
		return
	}

	// media removal after the DB commit, best effort
	for _, img := range images {
		h.Processor.Remove(img.PublicID, img.Format)
	}
	writeMessage(w, http.StatusOK, "album deleted", nil)
}

func (h *AlbumHandler) fetch(w http.ResponseWriter, id uint) (*models.Album, error) {
	album, err := h.Albums.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "album not found")
			return nil, err
		}
		log.Printf("Error fetching album %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load album")
		return nil, err
	}
	return album, nil
}
