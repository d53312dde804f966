package handlers

import (
	"log"
	"net/http"

	"github.com/ourmemories/memoriesbackend/media"
	"github.com/ourmemories/memoriesbackend/policy"
	"github.com/ourmemories/memoriesbackend/repository"
)

// SiteSettingsHandler serves the site-wide settings singleton.
type SiteSettingsHandler struct {
	Settings  repository.SiteSettingsRepositoryInterface
	Policy    *policy.Policy
	Processor *media.Processor

	MaxUploadBytes int64
}

func NewSiteSettingsHandler(settings repository.SiteSettingsRepositoryInterface, pol *policy.Policy, proc *media.Processor, maxUpload int64) *SiteSettingsHandler {
	return &SiteSettingsHandler{Settings: settings, Policy: pol, Processor: proc, MaxUploadBytes: maxUpload}
}

// Get returns the settings singleton. Readable by anyone.
func (h *SiteSettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get()
	if err != nil {
		log.Printf("Error loading site settings: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load settings")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// UpdateBackground replaces the site background image with an uploaded file.
func (h *SiteSettingsHandler) UpdateBackground(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}

	asset, cleanup, ok := ingestSingleFile(w, r, "background", h.Processor, h.MaxUploadBytes)
	if !ok {
		return
	}
	defer cleanup()

	if asset.Type != media.TypeImage {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "the background must be an image")
		return
	}

	settings, err := h.Settings.Get()
	if err != nil {
		log.Printf("Error loading site settings: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load settings")
		return
	}
	settings.BackgroundImageURL = &asset.URL
	settings.UpdatedByID = &caller.UserID
	if err := h.Settings.Save(settings); err != nil {
		log.Printf("Error saving site settings: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to save settings")
		return
	}
	writeMessage(w, http.StatusOK, "background updated", settings)
}

// DeleteBackground clears the site background image.
func (h *SiteSettingsHandler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context())
	if d := h.Policy.CanWrite(caller); d != nil {
		WriteDenial(w, d)
		return
	}

	settings, err := h.Settings.Get()
	if err != nil {
		log.Printf("Error loading site settings: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to load settings")
		return
	}
	settings.BackgroundImageURL = nil
	settings.UpdatedByID = &caller.UserID
	if err := h.Settings.Save(settings); err != nil {
		log.Printf("Error saving site settings: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to save settings")
		return
	}
	writeMessage(w, http.StatusOK, "background removed", settings)
}
