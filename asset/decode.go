package asset

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode reads a PNG, JPEG, GIF (first frame) or WebP image into an ImageBuf.
func Decode(r io.Reader) (*gg.ImageBuf, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}
	return gg.ImageBufFromImage(img), nil
}
