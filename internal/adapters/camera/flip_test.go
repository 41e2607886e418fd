package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"field-visit-service/internal/ports"
)

// Build an 8x8 image with a red left half and a blue right half.
func halvesPhoto(t *testing.T) ports.Photo {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	return ports.Photo{Name: "selfie.png", MIME: "image/png", Data: buf.Bytes()}
}

func TestFlipHorizontalMirrorsPixels(t *testing.T) {
	flipped, err := FlipHorizontal(halvesPhoto(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(flipped.Data))
	if err != nil {
		t.Fatalf("decode flipped: %v", err)
	}

	left := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	right := color.RGBAModel.Convert(img.At(7, 0)).(color.RGBA)

	// JPEG re-encoding shifts values; compare dominant channels well
	// away from the color boundary.
	if left.B < 150 || left.R > 110 {
		t.Fatalf("left pixel = %+v, want blue-dominant", left)
	}
	if right.R < 150 || right.B > 110 {
		t.Fatalf("right pixel = %+v, want red-dominant", right)
	}

	if flipped.MIME != "image/jpeg" {
		t.Fatalf("mime = %q, want image/jpeg", flipped.MIME)
	}
	if flipped.Name != "selfie.jpg" {
		t.Fatalf("name = %q, want selfie.jpg", flipped.Name)
	}
}

func TestFlipHorizontalRejectsGarbage(t *testing.T) {
	if _, err := FlipHorizontal(ports.Photo{Data: []byte("not an image")}); err == nil {
		t.Fatal("expected decode error")
	}
}
