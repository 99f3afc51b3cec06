package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCompressor() ports.ImageCompressor {
	return NewCompressor(zap.NewNop().Sugar())
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()

	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestCompressProducesJPEGDataURI(t *testing.T) {
	c := testCompressor()

	out, err := c.Compress(context.Background(), pngBytes(t, 64, 48), ports.CompressOptions{
		MaxSizeMB:        2,
		MaxWidthOrHeight: 1920,
	})
	require.NoError(t, err)

	img := decodeDataURI(t, out)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestCompressScalesDownOversizedImages(t *testing.T) {
	c := testCompressor()

	out, err := c.Compress(context.Background(), pngBytes(t, 400, 200), ports.CompressOptions{
		MaxSizeMB:        2,
		MaxWidthOrHeight: 100,
	})
	require.NoError(t, err)

	img := decodeDataURI(t, out)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestCompressRejectsNonImagePayload(t *testing.T) {
	c := testCompressor()

	_, err := c.Compress(context.Background(), []byte("definitely not an image"), ports.CompressOptions{
		MaxSizeMB:        2,
		MaxWidthOrHeight: 1920,
	})

	assert.ErrorIs(t, err, domain.ErrCompressionFailed)
}

func TestCompressHonorsCancelledContext(t *testing.T) {
	c := testCompressor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compress(ctx, pngBytes(t, 32, 32), ports.CompressOptions{
		MaxSizeMB:        2,
		MaxWidthOrHeight: 1920,
	})

	assert.ErrorIs(t, err, domain.ErrCompressionFailed)
}
