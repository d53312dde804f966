package media

import "testing"

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
		wantErr     bool
	}{
		{
			name:        "jpeg image",
			filename:    "beach.JPG",
			contentType: "image/jpeg",
			want:        TypeImage,
		},
		{
			name:        "mp4 video",
			filename:    "clip.mp4",
			contentType: "video/mp4",
			want:        TypeVideo,
		},
		{
			name:        "heic reported as octet-stream",
			filename:    "IMG_0001.HEIC",
			contentType: "application/octet-stream",
			want:        TypeImage,
		},
		{
			name:        "heif reported as octet-stream",
			filename:    "shot.heif",
			contentType: "application/octet-stream",
			want:        TypeImage,
		},
		{
			name:        "png reported as octet-stream is rejected",
			filename:    "pic.png",
			contentType: "application/octet-stream",
			wantErr:     true,
		},
		{
			name:        "good mime, bad extension",
			filename:    "document.pdf",
			contentType: "image/jpeg",
			wantErr:     true,
		},
		{
			name:        "good extension, bad mime",
			filename:    "pic.png",
			contentType: "text/plain",
			wantErr:     true,
		},
		{
			name:        "no extension",
			filename:    "raw",
			contentType: "image/png",
			wantErr:     true,
		},
		{
			name:        "mkv video",
			filename:    "movie.mkv",
			contentType: "video/x-matroska",
			want:        TypeVideo,
		},
		{
			name:        "content type decides the kind, not the extension",
			filename:    "clip.mp4",
			contentType: "image/jpeg",
			want:        TypeImage,
		},
		{
			name:        "image extension with a video content type",
			filename:    "frame.png",
			contentType: "video/mp4",
			want:        TypeVideo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUpload(tt.filename, tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateUpload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateUpload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.JPG", "jpg"},
		{"a.b.c.png", "png"},
		{"noext", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		if got := Ext(tt.in); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	if got := OriginalPath("memories/images/abc", "png"); got != "memories/images/abc.png" {
		t.Errorf("OriginalPath() = %q", got)
	}
	if got := OriginalPath("memories/videos/abc", ""); got != "memories/videos/abc" {
		t.Errorf("OriginalPath() with empty format = %q", got)
	}
	if got := ThumbPath("memories/images/abc"); got != "memories/images/abc_thumb.jpg" {
		t.Errorf("ThumbPath() = %q", got)
	}
}
