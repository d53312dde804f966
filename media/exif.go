package media

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ExtractTakenAt reads the EXIF capture time from an image file. A file
// without EXIF data (or without a date tag) yields nil, not an error.
func ExtractTakenAt(filePath string) (*time.Time, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	exifData, err := exif.Decode(file)
	if err != nil {
		// not necessarily a fatal error, file might just lack EXIF data
		return nil, nil
	}

	dt, err := exifData.DateTime()
	if err != nil {
		return nil, nil
	}
	return &dt, nil
}
