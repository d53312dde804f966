package handlers

import (
	"testing"
	"time"
)

func TestUploadTakenAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	supplied := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	exif := time.Date(2024, 4, 5, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		supplied *time.Time
		exif     *time.Time
		want     time.Time
	}{
		{
			name:     "client-supplied date wins",
			supplied: &supplied,
			exif:     &exif,
			want:     supplied,
		},
		{
			name: "exif when nothing supplied",
			exif: &exif,
			want: exif,
		},
		{
			name: "falls back to upload time",
			want: now,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uploadTakenAt(tt.supplied, tt.exif, now)
			if got == nil {
				t.Fatal("uploadTakenAt() = nil, want a date")
			}
			if !got.Equal(tt.want) {
				t.Errorf("uploadTakenAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
