package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"galarie/internal/logging"
	"galarie/internal/mediatypes"
	"galarie/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Size selects the thumbnail bounding box.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Dimensions returns the bounding box for this size. Unknown sizes fall
// back to medium.
func (s Size) Dimensions() (int, int) {
	switch s {
	case SizeSmall:
		return 100, 100
	case SizeLarge:
		return 400, 400
	default:
		return 200, 200
	}
}

// Valid reports whether s is one of the recognized size names.
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// ThumbnailGenerator produces and caches JPEG thumbnails for previewable
// media. Generation is serialized with a mutex since decoding large
// originals dominates memory use.
type ThumbnailGenerator struct {
	cacheDir string
	enabled  bool
	mu       sync.Mutex
}

func NewThumbnailGenerator(cacheDir string, enabled bool) *ThumbnailGenerator {
	if enabled {
		logging.Debug("ThumbnailGenerator: enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("ThumbnailGenerator: failed to create cache dir: %v", err)
		}
	} else {
		logging.Debug("ThumbnailGenerator: disabled")
	}
	return &ThumbnailGenerator{
		cacheDir: cacheDir,
		enabled:  enabled,
	}
}

func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// GetThumbnail returns the JPEG thumbnail bytes for the given source file,
// generating and caching them on first request. The cache key covers both
// the source path and the requested size.
func (t *ThumbnailGenerator) GetThumbnail(filePath string, mediaType mediatypes.MediaType, size Size) ([]byte, error) {
	if !t.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(filePath))
	cacheKey := fmt.Sprintf("%x_%s.jpg", hash, size)
	cachePath := filepath.Join(t.cacheDir, cacheKey)

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s (%s)", filePath, size)
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have generated it while we waited for the lock.
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}

	logging.Debug("Thumbnail generating: %s (type: %s, size: %s)", filePath, mediaType, size)
	start := time.Now()
	width, height := size.Dimensions()

	var img image.Image
	var err error

	switch mediaType {
	case mediatypes.MediaTypeImage, mediatypes.MediaTypeGif:
		img, err = t.decodeImage(filePath, width, height)
	case mediatypes.MediaTypeVideo:
		img, err = t.extractVideoFrame(filePath)
	default:
		return nil, fmt.Errorf("unsupported media type: %s", mediaType)
	}

	if err != nil {
		metrics.ThumbnailErrors.Inc()
		return nil, fmt.Errorf("thumbnail generation failed: %w", err)
	}
	if img == nil {
		metrics.ThumbnailErrors.Inc()
		return nil, fmt.Errorf("thumbnail generation returned nil image")
	}

	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		metrics.ThumbnailErrors.Inc()
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	} else {
		logging.Debug("Thumbnail cached: %s", cachePath)
	}

	metrics.ThumbnailsGenerated.WithLabelValues(string(mediaType)).Inc()
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())

	return buf.Bytes(), nil
}

// decodeImage loads an image, preferring the vips fast path (decode-time
// shrinking), then imaging, stdlib decode and ffmpeg as fallbacks.
func (t *ThumbnailGenerator) decodeImage(filePath string, width, height int) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := LoadImageWithVips(filePath, width, height)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips load failed for %s: %v, falling back", filePath, err)
	}

	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v, trying fallback methods", filePath, err)

	img, err = decodeImageFile(filePath)
	if err == nil {
		return img, nil
	}
	logging.Debug("Standard decode failed for %s: %v, trying ffmpeg fallback", filePath, err)

	img, err = decodeWithFFmpeg(filePath)
	if err != nil {
		return nil, fmt.Errorf("all image decode methods failed for %s: %w", filePath, err)
	}
	return img, nil
}

func decodeImageFile(filePath string) (image.Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	logging.Debug("Decoded image format: %s for %s", format, filePath)
	return img, nil
}

// decodeWithFFmpeg asks ffmpeg to render the first frame as PNG on stdout.
func decodeWithFFmpeg(filePath string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	cmd := exec.Command("ffmpeg",
		"-i", filePath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-pix_fmt", "rgb24",
		"-",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", filePath)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

// extractVideoFrame grabs a poster frame, one second in when the video is
// long enough, the first frame otherwise.
func (t *ThumbnailGenerator) extractVideoFrame(filePath string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	cmd := exec.Command("ffmpeg",
		"-i", filePath,
		"-ss", "00:00:01",
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.Debug("FFmpeg first attempt failed for %s: %v, stderr: %s", filePath, err, stderr.String())

		cmd = exec.Command("ffmpeg",
			"-i", filePath,
			"-vframes", "1",
			"-f", "image2pipe",
			"-vcodec", "png",
			"-",
		)
		stdout.Reset()
		stderr.Reset()
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
		}
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", filePath)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}
