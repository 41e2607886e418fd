package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"time"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/platform/obs"
	"field-visit-service/internal/ports"
)

// VisitGateway implements ports.VisitGateway against the visit REST API.
type VisitGateway struct {
	client *Client
}

func NewVisitGateway(client *Client) *VisitGateway {
	return &VisitGateway{client: client}
}

type outletPayload struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
	Radius   int     `json:"radius"`
}

type visitPayload struct {
	ID         int     `json:"id"`
	OutletID   int     `json:"outlet_id"`
	OutletName string  `json:"outlet_name"`
	Type       string  `json:"type"`
	CheckInAt  string  `json:"checkin_at"`
	CheckOutAt *string `json:"checkout_at"`
}

// Fetch one outlet's detail record.
func (g *VisitGateway) OutletByID(ctx context.Context, id int) (_ domain.Outlet, err error) {
	defer obs.Time(ctx, "gateway.OutletByID")(&err)

	env, err := g.client.Get(ctx, "/outlets/"+strconv.Itoa(id), nil, CallOptions{Retry: true})
	if err != nil {
		return domain.Outlet{}, fmt.Errorf("get outlet %d: %w", id, err)
	}

	var p outletPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return domain.Outlet{}, fmt.Errorf("get outlet %d: decode data: %w", id, err)
	}

	outlet := domain.Outlet{ID: p.ID, Name: p.Name, Radius: p.Radius}
	if p.Location != nil {
		outlet.Location = *p.Location
	}

	return outlet, nil
}

// Fetch one visit record.
func (g *VisitGateway) VisitByID(ctx context.Context, id int) (_ domain.Visit, err error) {
	defer obs.Time(ctx, "gateway.VisitByID")(&err)

	env, err := g.client.Get(ctx, "/visit/"+strconv.Itoa(id), nil, CallOptions{Retry: true})
	if err != nil {
		return domain.Visit{}, fmt.Errorf("get visit %d: %w", id, err)
	}

	var p visitPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return domain.Visit{}, fmt.Errorf("get visit %d: decode data: %w", id, err)
	}

	return p.toDomain(), nil
}

// CheckVisitAllowed asks the backend whether a check-in at the outlet
// is currently permitted. An already-active visit or an
// already-visited-today rule comes back as a KindBusiness RequestError
// carrying the server's message verbatim.
func (g *VisitGateway) CheckVisitAllowed(ctx context.Context, outletID int) (err error) {
	defer obs.Time(ctx, "gateway.CheckVisitAllowed")(&err)

	query := url.Values{}
	query.Set("outlet_id", strconv.Itoa(outletID))

	if _, err := g.client.Get(ctx, "/visit/check", query, CallOptions{Retry: true}); err != nil {
		return fmt.Errorf("check visit for outlet %d: %w", outletID, err)
	}
	return nil
}

// CreateVisit posts the multipart check-in payload.
func (g *VisitGateway) CreateVisit(ctx context.Context, sub ports.CheckInSubmission) (_ domain.Visit, err error) {
	defer obs.Time(ctx, "gateway.CreateVisit")(&err)

	build := func(w *multipart.Writer) error {
		if err := w.WriteField("outlet_id", strconv.Itoa(sub.OutletID)); err != nil {
			return err
		}
		if err := w.WriteField("checkin_location", sub.Location); err != nil {
			return err
		}
		if err := w.WriteField("type", sub.VisitType); err != nil {
			return err
		}
		return writeFilePart(w, "checkin_photo", sub.Photo)
	}

	env, err := g.client.PostMultipart(ctx, "/visit", build, CallOptions{})
	if err != nil {
		return domain.Visit{}, fmt.Errorf("create visit outlet=%d: %w", sub.OutletID, err)
	}

	var p visitPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		// The record was created; a missing body shape is not fatal.
		return domain.Visit{OutletID: sub.OutletID, Type: sub.VisitType}, nil
	}

	return p.toDomain(), nil
}

// CompleteVisit posts the multipart check-out payload. Update-via-POST
// is a backend convention this client must match.
func (g *VisitGateway) CompleteVisit(ctx context.Context, visitID int, sub ports.CheckOutSubmission) (err error) {
	defer obs.Time(ctx, "gateway.CompleteVisit")(&err)

	build := func(w *multipart.Writer) error {
		if err := w.WriteField("checkout_location", sub.Location); err != nil {
			return err
		}
		if err := w.WriteField("transaction", sub.Transaction); err != nil {
			return err
		}
		if err := w.WriteField("report", sub.Report); err != nil {
			return err
		}
		return writeFilePart(w, "checkout_photo", sub.Photo)
	}

	if _, err := g.client.PostMultipart(ctx, "/visit/"+strconv.Itoa(visitID), build, CallOptions{}); err != nil {
		return fmt.Errorf("complete visit %d: %w", visitID, err)
	}
	return nil
}

// Logout invalidates the session server-side. Its own auth failures
// never re-trigger the expiry handler.
func (g *VisitGateway) Logout(ctx context.Context) (err error) {
	defer obs.Time(ctx, "gateway.Logout")(&err)

	if _, err := g.client.PostJSON(ctx, "/logout", nil, CallOptions{}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func writeFilePart(w *multipart.Writer, field string, photo ports.Photo) error {
	name := photo.Name
	if name == "" {
		name = field + ".jpg"
	}

	fw, err := w.CreateFormFile(field, name)
	if err != nil {
		return err
	}
	_, err = fw.Write(photo.Data)
	return err
}

func (p visitPayload) toDomain() domain.Visit {
	v := domain.Visit{
		ID:         p.ID,
		OutletID:   p.OutletID,
		OutletName: p.OutletName,
		Type:       p.Type,
		CheckInAt:  parseVisitTime(p.CheckInAt),
	}
	if p.CheckOutAt != nil {
		t := parseVisitTime(*p.CheckOutAt)
		v.CheckOutAt = &t
	}
	return v
}

// The backend emits both RFC 3339 and "2006-01-02 15:04:05" stamps
// depending on endpoint; unparseable stamps decode to the zero time.
func parseVisitTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
