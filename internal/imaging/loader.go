package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// SourceCache keeps the raw bytes of source images keyed by file path.
//
// The mosaic pipeline decodes from bytes so that a corrupt file degrades to a
// fallback grid instead of an error; caching the bytes rather than decoded
// images keeps that behavior while still avoiding repeated disk reads when
// the same photo is converted at several sizes.
//
// Cached data stays in memory until Evict or Clear is called.
//
//	cache := imaging.NewSourceCache()
//	data, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	result := mosaic.ProcessImage(data, settings)
type SourceCache struct {
	mu      sync.RWMutex
	sources map[string][]byte
}

// NewSourceCache creates an empty cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{
		sources: make(map[string][]byte),
	}
}

// Load returns the bytes of the file at path, reading it on the first call.
//
// Different spellings of the same path are cached separately. Errors are only
// returned for I/O problems; the contents are not validated here.
func (c *SourceCache) Load(path string) ([]byte, error) {
	c.mu.RLock()
	if data, ok := c.sources[path]; ok {
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	c.mu.Lock()
	c.sources[path] = data
	c.mu.Unlock()

	return data, nil
}

// LoadImage reads and decodes the file at path. Decoder panics are returned
// as errors.
func (c *SourceCache) LoadImage(path string) (image.Image, error) {
	data, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	img, _, err := mosaic.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Clear removes every cached file.
func (c *SourceCache) Clear() {
	c.mu.Lock()
	c.sources = make(map[string][]byte)
	c.mu.Unlock()
}

// Evict removes a single path. Unknown paths are ignored.
func (c *SourceCache) Evict(path string) {
	c.mu.Lock()
	delete(c.sources, path)
	c.mu.Unlock()
}

// Len reports how many files are cached.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// ImageInfo contains metadata about a source image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognized the data, such as "png" or "jpeg".
	// Detection uses the file contents, not the extension.
	Format string `json:"format"`

	// AspectRatio is Width/Height, or 0 when Height is 0.
	AspectRatio float64 `json:"aspect_ratio"`

	// FileSizeBytes is the size of the encoded data in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads only the image header of path and reports its
// metadata. The file bytes are cached for a later conversion.
func LoadImageInfo(cache *SourceCache, path string) (*ImageInfo, error) {
	data, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return DecodeInfo(data)
}

// DecodeInfo reports the metadata of encoded image data.
func DecodeInfo(data []byte) (info *ImageInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("failed to read image header: decoder panic: %v", r)
		}
	}()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	info = &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: int64(len(data)),
	}
	if cfg.Height > 0 {
		info.AspectRatio = float64(cfg.Width) / float64(cfg.Height)
	}
	return info, nil
}

// DecodeBase64 decodes image data passed inline, with or without a
// "data:image/...;base64," prefix.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return data, nil
}
