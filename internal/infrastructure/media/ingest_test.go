package media_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
	"github.com/townlist/townlist-services/api/internal/infrastructure/media"
)

type fakeArea struct {
	filename    string
	data        []byte
	contentType string
	err         error
	writes      int
}

var _ media.ContentArea = (*fakeArea)(nil)

func (f *fakeArea) Write(_ context.Context, filename string, data []byte, contentType string) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	f.filename = filename
	f.data = data
	f.contentType = contentType
	return nil
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIngest_ResizesToFixedWidth(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	filename, err := pipeline.Ingest(context.Background(), jpegBytes(t, 2000, 1000), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, filename, area.filename)
	assert.Equal(t, "image/jpeg", area.contentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(area.data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, media.PhotoWidth, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestIngest_SmallImagesAreUpscaledToWidth(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	_, err := pipeline.Ingest(context.Background(), jpegBytes(t, 400, 300), "image/jpeg")

	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(area.data))
	require.NoError(t, err)
	assert.Equal(t, media.PhotoWidth, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestIngest_FilenameCarriesUUIDAndSubtype(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	filename, err := pipeline.Ingest(context.Background(), pngBytes(t, 100, 100), "image/png")

	require.NoError(t, err)
	require.True(t, strings.HasSuffix(filename, ".png"), "filename %q", filename)
	_, err = uuid.Parse(strings.TrimSuffix(filename, ".png"))
	assert.NoError(t, err)
}

func TestIngest_FilenamesAreUnique(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)
	data := pngBytes(t, 50, 50)

	first, err := pipeline.Ingest(context.Background(), data, "image/png")
	require.NoError(t, err)
	second, err := pipeline.Ingest(context.Background(), data, "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestIngest_RejectsNonImageMediaType(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	_, err := pipeline.Ingest(context.Background(), []byte("hello"), "text/plain")

	assert.ErrorIs(t, err, domain.ErrInvalidMediaType)
	assert.Zero(t, area.writes)
}

func TestIngest_RejectsBareImageType(t *testing.T) {
	pipeline := media.NewPipeline(&fakeArea{})

	_, err := pipeline.Ingest(context.Background(), []byte{}, "image/")

	assert.ErrorIs(t, err, domain.ErrInvalidMediaType)
}

func TestIngest_UndecodableBytes(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	_, err := pipeline.Ingest(context.Background(), []byte("not an image"), "image/jpeg")

	assert.ErrorIs(t, err, domain.ErrDecode)
	assert.Zero(t, area.writes)
}

func TestIngest_StorageFailure(t *testing.T) {
	area := &fakeArea{err: errors.New("bucket unavailable")}
	pipeline := media.NewPipeline(area)

	_, err := pipeline.Ingest(context.Background(), jpegBytes(t, 100, 100), "image/jpeg")

	assert.ErrorIs(t, err, domain.ErrStorageWrite)
}

func TestIngest_UnknownSubtypeStoredAsJPEG(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	filename, err := pipeline.Ingest(context.Background(), jpegBytes(t, 100, 100), "image/x-custom")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".x-custom"))

	_, format, err := image.DecodeConfig(bytes.NewReader(area.data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestIngest_ParameterisedMediaTypeKeepsBareSubtype(t *testing.T) {
	area := &fakeArea{}
	pipeline := media.NewPipeline(area)

	filename, err := pipeline.Ingest(context.Background(), pngBytes(t, 60, 60), "image/png; charset=binary")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".png"), "filename %q", filename)
}
