package mediatypes

import "testing"

func TestGetMediaType(t *testing.T) {
	tests := []struct {
		ext      string
		expected MediaType
	}{
		{".jpg", MediaTypeImage},
		{".jpeg", MediaTypeImage},
		{".png", MediaTypeImage},
		{".webp", MediaTypeImage},
		{".heic", MediaTypeImage},
		{".gif", MediaTypeGif},
		{".mp4", MediaTypeVideo},
		{".mkv", MediaTypeVideo},
		{".webm", MediaTypeVideo},
		{".mp3", MediaTypeAudio},
		{".flac", MediaTypeAudio},
		{".pdf", MediaTypePdf},
		{".txt", MediaTypeUnknown},
		{".exe", MediaTypeUnknown},
		{"", MediaTypeUnknown},
	}

	for _, tt := range tests {
		if got := GetMediaType(tt.ext); got != tt.expected {
			t.Errorf("GetMediaType(%q) = %v, want %v", tt.ext, got, tt.expected)
		}
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{".jpg", "image/jpeg"},
		{".gif", "image/gif"},
		{".mp4", "video/mp4"},
		{".flac", "audio/flac"},
		{".pdf", "application/pdf"},
		{".xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := GetMimeType(tt.ext); got != tt.expected {
			t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.expected)
		}
	}
}

func TestIsPreviewable(t *testing.T) {
	previewable := []MediaType{MediaTypeImage, MediaTypeGif, MediaTypeVideo}
	for _, mt := range previewable {
		if !IsPreviewable(mt) {
			t.Errorf("IsPreviewable(%v) = false, want true", mt)
		}
	}

	notPreviewable := []MediaType{MediaTypeAudio, MediaTypePdf, MediaTypeUnknown}
	for _, mt := range notPreviewable {
		if IsPreviewable(mt) {
			t.Errorf("IsPreviewable(%v) = true, want false", mt)
		}
	}
}
