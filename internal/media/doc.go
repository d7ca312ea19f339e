// Package media generates and caches thumbnails for previewable media.
// Images decode through libvips when available, falling back to pure-Go
// decoders and finally ffmpeg; video poster frames always go through ffmpeg.
package media
