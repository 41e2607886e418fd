package domain

import "time"

// Transaction outcome reported at check-out.
const (
	TransactionYes = "YES"
	TransactionNo  = "NO"
)

// Visit represents a backend visit record as consumed by the client.
// CheckOutAt is nil while the visit is still open.
type Visit struct {
	ID         int
	OutletID   int
	OutletName string
	Type       string
	CheckInAt  time.Time
	CheckOutAt *time.Time
}

// LocationSample is a coordinate plus its capture time. Samples are
// owned by the workflow that requested them and are superseded, never
// merged, by each newer sample.
type LocationSample struct {
	Coordinate Coordinate
	CapturedAt time.Time
}
