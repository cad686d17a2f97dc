package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// PhotoWidth is the fixed width resized photos are stored at; height follows
// the source aspect ratio.
const PhotoWidth = 800

// ContentArea is the durable storage photos are written to, addressed by
// filename. Write must not return before the data is persisted.
type ContentArea interface {
	Write(ctx context.Context, filename string, data []byte, contentType string) error
}

// Pipeline validates, resizes and stores uploaded photos. It implements
// application.PhotoIngestor.
type Pipeline struct {
	area ContentArea
}

// NewPipeline constructs a photo pipeline over the given content area.
func NewPipeline(area ContentArea) *Pipeline {
	return &Pipeline{area: area}
}

// Ingest checks the declared media type, generates a random filename keeping
// the original subtype as extension, decodes and resizes the image to
// PhotoWidth and writes it to the content area. The filename is only
// returned once the write has completed, so a store record never references
// a file that was not persisted.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, declaredMimeType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(declaredMimeType))
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, declaredMimeType)
	}
	ext := strings.TrimPrefix(mediaType, "image/")
	if i := strings.IndexAny(ext, ";+"); i >= 0 {
		ext = ext[:i]
	}
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, declaredMimeType)
	}
	filename := uuid.NewString() + "." + ext

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	resized := imaging.Resize(img, PhotoWidth, 0, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		// No encoder for this subtype; store the pixels as JPEG under the
		// original name.
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	if err := p.area.Write(ctx, filename, buf.Bytes(), mediaType); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	return filename, nil
}
