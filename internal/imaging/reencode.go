package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// ReencodePNG decodes content (png, jpeg or gif) and re-encodes it as PNG.
// Rendered assets are always stored as PNG regardless of input format.
func ReencodePNG(content *Content) (*Content, error) {
	if content == nil || len(content.Bytes) == 0 {
		return nil, fmt.Errorf("no content to re-encode")
	}

	img, _, err := image.Decode(bytes.NewReader(content.Bytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return &Content{Bytes: buf.Bytes(), ContentType: "image/png"}, nil
}
