package ports

import (
	"context"
	"field-visit-service/internal/domain"
)

// Photo is a captured image ready for multipart upload.
type Photo struct {
	Name string
	MIME string
	Data []byte
}

// CheckInSubmission is the multipart payload for visit creation.
type CheckInSubmission struct {
	OutletID  int
	Location  string
	VisitType string
	Photo     Photo
}

// CheckOutSubmission is the multipart payload completing a visit.
// Location may be empty when acquisition failed; the backend accepts
// check-outs without a fix.
type CheckOutSubmission struct {
	Location    string
	Photo       Photo
	Transaction string
	Report      string
}

// Port: the backend visit API consumed by the workflows.
type VisitGateway interface {
	// Fetch one outlet's detail record.
	OutletByID(ctx context.Context, id int) (domain.Outlet, error)
	// Fetch one visit record (check-out preload).
	VisitByID(ctx context.Context, id int) (domain.Visit, error)
	// Ask whether a check-in at the outlet is currently allowed.
	// A KindBusiness RequestError carries the server's rejection.
	CheckVisitAllowed(ctx context.Context, outletID int) error
	// Create a visit (check-in).
	CreateVisit(ctx context.Context, sub CheckInSubmission) (domain.Visit, error)
	// Complete a visit (check-out).
	CompleteVisit(ctx context.Context, visitID int, sub CheckOutSubmission) error
	// Invalidate the current session server-side.
	Logout(ctx context.Context) error
}
