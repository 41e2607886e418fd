package ports

import "context"

// Port: a source of selfie captures (the front camera on mobile, a
// file on disk for headless runs).
type PhotoSource interface {
	// Capture a photo. May stall until the user completes the capture.
	Capture(ctx context.Context) (Photo, error)
}

// PhotoTransform post-processes a capture before upload (e.g. the
// front-camera mirror correction).
type PhotoTransform func(Photo) (Photo, error)
