package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

var allowedImageExts = map[string]bool{
	"jpeg": true, "jpg": true, "png": true, "webp": true,
	"gif": true, "heic": true, "heif": true,
}

var allowedVideoExts = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "webm": true, "mkv": true,
}

// Ext returns the lowercased filename extension without the dot.
func Ext(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ValidateUpload classifies an upload as image or video. The extension must
// be on the allowlist and the declared content type must be a media type;
// the content type, not the extension, decides the kind. HEIC/HEIF files
// often arrive as application/octet-stream, so that combination is allowed
// through as an image.
func ValidateUpload(filename, contentType string) (string, error) {
	ext := Ext(filename)

	isImageExt := allowedImageExts[ext]
	isVideoExt := allowedVideoExts[ext]

	isImageMime := strings.HasPrefix(contentType, "image/")
	isVideoMime := strings.HasPrefix(contentType, "video/")
	isHeicAsOctetStream := contentType == "application/octet-stream" && (ext == "heic" || ext == "heif")

	validExt := isImageExt || isVideoExt
	validMime := isImageMime || isVideoMime || isHeicAsOctetStream

	if !validExt || !validMime {
		return "", fmt.Errorf("only image (JPEG, PNG, WEBP, GIF, HEIC, HEIF) or video (MP4, MOV, AVI, WEBM, MKV) uploads are allowed, got %s (%s)", filename, contentType)
	}

	if isVideoMime {
		return TypeVideo, nil
	}
	return TypeImage, nil
}
