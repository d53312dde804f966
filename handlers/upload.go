package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/ourmemories/memoriesbackend/media"
)

// spoolUpload writes one multipart file to a temp file so EXIF and frame
// extraction can seek through it. The caller removes the temp file.
func spoolUpload(file multipart.File) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("error spooling upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("error closing temp file: %w", err)
	}
	return tmp.Name(), nil
}

func ingestUploadedFile(proc *media.Processor, header *multipart.FileHeader) (*media.Asset, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	tempPath, err := spoolUpload(file)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempPath)

	return proc.Ingest(tempPath, header.Filename, header.Header.Get("Content-Type"), header.Size)
}

// ingestSingleFile parses a multipart request expected to carry exactly one
// file under fieldName and ingests it. It writes the error response itself
// when something goes wrong.
func ingestSingleFile(w http.ResponseWriter, r *http.Request, fieldName string, proc *media.Processor, maxBytes int64) (*media.Asset, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid multipart form: "+err.Error())
		return nil, nil, false
	}

	file, header, err := r.FormFile(fieldName)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "missing file field: "+fieldName)
		return nil, nil, false
	}
	file.Close()

	asset, err := ingestUploadedFile(proc, header)
	if err != nil {
		log.Printf("Error ingesting upload %s: %v", header.Filename, err)
		WriteAPIError(w, http.StatusBadRequest, "validation_error", err.Error())
		return nil, nil, false
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}
	return asset, cleanup, true
}
