package mediatypes

// MediaType classifies an indexed file by its content category.
type MediaType string

const (
	// MediaTypeImage represents a still image file.
	MediaTypeImage MediaType = "image"
	// MediaTypeGif represents an animated GIF.
	MediaTypeGif MediaType = "gif"
	// MediaTypeVideo represents a video file.
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio represents an audio file.
	MediaTypeAudio MediaType = "audio"
	// MediaTypePdf represents a PDF document.
	MediaTypePdf MediaType = "pdf"
	// MediaTypeUnknown represents an unrecognized extension. Unknown files
	// are still indexed and searchable by tag, just not previewable.
	MediaTypeUnknown MediaType = "unknown"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".heic": true,
	".tiff": true,
	".tif":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".ogg":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".gif":  "image/gif",

	// Videos
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",

	// Audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",

	// Documents
	".pdf": "application/pdf",
}

// GetMediaType returns the MediaType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns MediaTypeUnknown if the extension is not recognized.
func GetMediaType(ext string) MediaType {
	if ext == ".gif" {
		return MediaTypeGif
	}
	if ImageExtensions[ext] {
		return MediaTypeImage
	}
	if VideoExtensions[ext] {
		return MediaTypeVideo
	}
	if AudioExtensions[ext] {
		return MediaTypeAudio
	}
	if ext == ".pdf" {
		return MediaTypePdf
	}
	return MediaTypeUnknown
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsPreviewable returns true if thumbnails can be produced for the media type.
func IsPreviewable(mt MediaType) bool {
	switch mt {
	case MediaTypeImage, MediaTypeGif, MediaTypeVideo:
		return true
	default:
		return false
	}
}
