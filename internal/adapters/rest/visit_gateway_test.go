package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"field-visit-service/internal/ports"
)

func TestGatewayOutletByIDDecodesNullLocation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/outlets/15" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"meta": {"code": 200, "status": "success", "message": "OK"},
			"data": {"id": 15, "name": "Warung Dua", "location": null, "radius": 0}
		}`))
	}))

	gw := NewVisitGateway(client)
	outlet, err := gw.OutletByID(context.Background(), 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outlet.ID != 15 || outlet.Name != "Warung Dua" {
		t.Fatalf("outlet = %+v", outlet)
	}
	if outlet.Location != "" {
		t.Fatalf("location = %q, want empty for null", outlet.Location)
	}
}

func TestGatewayCheckVisitAllowed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("outlet_id"); got != "12" {
			t.Errorf("outlet_id = %q", got)
		}
		writeEnvelope(w, 200, 400, "error", "Outlet sudah pernah visit hari ini", nil)
	}))

	gw := NewVisitGateway(client)
	err := gw.CheckVisitAllowed(context.Background(), 12)

	var reqErr *ports.RequestError
	if !errors.As(err, &reqErr) || reqErr.Kind != ports.KindBusiness {
		t.Fatalf("error = %v, want business RequestError", err)
	}
	if reqErr.Message != "Outlet sudah pernah visit hari ini" {
		t.Fatalf("message = %q, want server text verbatim", reqErr.Message)
	}
}

func TestGatewayCompleteVisitPostsToVisitID(t *testing.T) {
	var gotPath, gotTransaction, gotReport string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotTransaction = r.FormValue("transaction")
		gotReport = r.FormValue("report")
		writeEnvelope(w, 200, 200, "success", "OK", nil)
	}))

	gw := NewVisitGateway(client)
	err := gw.CompleteVisit(context.Background(), 42, ports.CheckOutSubmission{
		Location:    "",
		Photo:       ports.Photo{Name: "out.jpg", Data: []byte("jpeg")},
		Transaction: "NO",
		Report:      "Tidak ada transaksi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/visit/42" {
		t.Fatalf("path = %q, want /visit/42", gotPath)
	}
	if gotTransaction != "NO" || gotReport != "Tidak ada transaksi" {
		t.Fatalf("form = transaction=%q report=%q", gotTransaction, gotReport)
	}
}
