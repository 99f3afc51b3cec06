// Package imaging converts uploaded logo images into bounded-size
// data URIs before they enter the overlay store.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"
	"streamlay/pkg/tracing"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// quality ladder walked until the payload fits the size budget
var jpegQualities = []int{85, 70, 55, 40, 25}

type Compressor struct {
	log *zap.SugaredLogger
}

func NewCompressor(log *zap.SugaredLogger) ports.ImageCompressor {
	return &Compressor{log: log}
}

// Compress decodes the upload, scales it down to the configured
// maximum dimension, and re-encodes as JPEG, lowering quality until
// the result fits opts.MaxSizeMB. Any failure surfaces as
// domain.ErrCompressionFailed so the editor can keep its draft intact.
func (c *Compressor) Compress(ctx context.Context, raw []byte, opts ports.CompressOptions) (string, error) {
	ctx, span := tracing.TraceCompression(ctx, len(raw))
	defer span.End()

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", domain.ErrCompressionFailed, err)
	}

	if opts.MaxWidthOrHeight > 0 {
		img = bound(img, uint(opts.MaxWidthOrHeight))
	}

	budget := int(opts.MaxSizeMB * 1024 * 1024)

	var encoded []byte
	for _, q := range jpegQualities {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrCompressionFailed, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return "", fmt.Errorf("%w: encode: %v", domain.ErrCompressionFailed, err)
		}
		encoded = buf.Bytes()

		if budget <= 0 || len(encoded) <= budget {
			c.log.Debugw("image compressed",
				"source_format", format,
				"input_bytes", len(raw),
				"output_bytes", len(encoded),
				"quality", q,
			)
			return toDataURI(encoded), nil
		}
	}

	if budget > 0 && len(encoded) > budget {
		return "", fmt.Errorf("%w: %d bytes exceeds %.1fMB budget at lowest quality",
			domain.ErrCompressionFailed, len(encoded), opts.MaxSizeMB)
	}
	return toDataURI(encoded), nil
}

// bound scales img down so neither dimension exceeds max, preserving
// aspect ratio. Images already within bounds pass through untouched.
func bound(img image.Image, max uint) image.Image {
	b := img.Bounds()
	if uint(b.Dx()) <= max && uint(b.Dy()) <= max {
		return img
	}
	return resize.Thumbnail(max, max, img, resize.Lanczos3)
}

func toDataURI(jpegBytes []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}
