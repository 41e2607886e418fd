package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"field-visit-service/internal/ports"
)

// FlipHorizontal mirrors a photo left-to-right and re-encodes it as
// JPEG. Front-camera captures arrive mirrored; the check-out payload
// stores the corrected orientation.
func FlipHorizontal(photo ports.Photo) (ports.Photo, error) {
	src, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		return ports.Photo{}, fmt.Errorf("flip photo: decode: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-(x-bounds.Min.X), y, src.At(x, y))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return ports.Photo{}, fmt.Errorf("flip photo: encode: %w", err)
	}

	name := photo.Name
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		name = name[:len(name)-len(".png")] + ".jpg"
	}

	return ports.Photo{Name: name, MIME: "image/jpeg", Data: buf.Bytes()}, nil
}
