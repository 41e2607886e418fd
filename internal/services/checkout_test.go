package services

import (
	"context"
	"errors"
	"testing"

	"field-visit-service/internal/adapters/location"
	"field-visit-service/internal/adapters/rest"
	"field-visit-service/internal/domain"
	"field-visit-service/internal/ports"
)

type photoSourceFunc func(ctx context.Context) (ports.Photo, error)

func (f photoSourceFunc) Capture(ctx context.Context) (ports.Photo, error) { return f(ctx) }

func fixedPhotoSource(p ports.Photo) ports.PhotoSource {
	return photoSourceFunc(func(ctx context.Context) (ports.Photo, error) { return p, nil })
}

func newCheckOutFixture(t *testing.T) (*CheckOutWorkflow, *rest.MockVisitGateway) {
	t.Helper()

	gw := rest.NewMockVisitGateway()
	gw.Visits[42] = domain.Visit{ID: 42, OutletID: 12, OutletName: "Toko Sinar"}

	w := NewCheckOutWorkflow(gw, location.NewStaticProvider(-6.2088, 106.8456), fixedPhotoSource(testPhoto), nil)
	if err := w.Load(context.Background(), 42); err != nil {
		t.Fatalf("load visit: %v", err)
	}
	return w, gw
}

func TestCheckOutRequiresReportAndTransaction(t *testing.T) {
	w, gw := newCheckOutFixture(t)
	ctx := context.Background()

	if w.CanSubmit() {
		t.Fatal("submit enabled with empty form")
	}
	if err := w.Submit(ctx); !errors.Is(err, ErrCheckOutIncomplete) {
		t.Fatalf("error = %v, want ErrCheckOutIncomplete", err)
	}

	w.SetReport("   ")
	if err := w.SetTransaction(domain.TransactionYes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.CanSubmit() {
		t.Fatal("submit enabled with whitespace report")
	}

	w.SetReport("Stok aman, pajangan rapi")
	if !w.CanSubmit() {
		t.Fatal("submit disabled with complete form")
	}

	if err := w.Submit(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.CompleteCalls != 1 {
		t.Fatalf("complete calls = %d, want 1", gw.CompleteCalls)
	}

	sub := gw.LastCheckOut
	if sub.Report != "Stok aman, pajangan rapi" || sub.Transaction != domain.TransactionYes {
		t.Fatalf("submission = %+v", sub)
	}
	if sub.Location != "-6.2088,106.8456" {
		t.Fatalf("location = %q", sub.Location)
	}
}

func TestCheckOutRejectsBadTransaction(t *testing.T) {
	w, _ := newCheckOutFixture(t)

	if err := w.SetTransaction("MAYBE"); err == nil {
		t.Fatal("expected error for invalid outcome")
	}
}

func TestCheckOutToleratesMissingLocation(t *testing.T) {
	gw := rest.NewMockVisitGateway()
	gw.Visits[42] = domain.Visit{ID: 42, OutletID: 12}

	w := NewCheckOutWorkflow(gw, location.Unavailable{}, fixedPhotoSource(testPhoto), nil)
	ctx := context.Background()

	if err := w.Load(ctx, 42); err != nil {
		t.Fatalf("load visit: %v", err)
	}
	w.SetReport("Tutup sementara")
	if err := w.SetTransaction(domain.TransactionNo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Submit(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.LastCheckOut.Location != "" {
		t.Fatalf("location = %q, want empty without a fix", gw.LastCheckOut.Location)
	}
	if !w.Completed() {
		t.Fatal("workflow not completed")
	}
}

func TestCheckOutAppliesPhotoTransform(t *testing.T) {
	gw := rest.NewMockVisitGateway()
	gw.Visits[42] = domain.Visit{ID: 42}

	transformed := false
	transform := func(p ports.Photo) (ports.Photo, error) {
		transformed = true
		p.Name = "mirrored.jpg"
		return p, nil
	}

	w := NewCheckOutWorkflow(gw, location.Unavailable{}, fixedPhotoSource(testPhoto), transform)
	ctx := context.Background()

	if err := w.Load(ctx, 42); err != nil {
		t.Fatalf("load visit: %v", err)
	}
	w.SetReport("ok")
	if err := w.SetTransaction(domain.TransactionYes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Submit(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !transformed {
		t.Fatal("transform not applied")
	}
	if gw.LastCheckOut.Photo.Name != "mirrored.jpg" {
		t.Fatalf("photo name = %q", gw.LastCheckOut.Photo.Name)
	}
}

func TestCheckOutFailureKeepsFormForRetry(t *testing.T) {
	w, gw := newCheckOutFixture(t)
	ctx := context.Background()

	w.SetReport("Laporan kunjungan")
	if err := w.SetTransaction(domain.TransactionNo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gw.CompleteErr = &ports.RequestError{Kind: ports.KindServer, Message: "Gagal menyimpan", HTTPStatus: 500}
	if err := w.Submit(ctx); err == nil {
		t.Fatal("expected submit failure")
	}
	if w.Completed() {
		t.Fatal("marked completed after failure")
	}

	// Form is still populated; a retry succeeds without re-entry.
	gw.CompleteErr = nil
	if !w.CanSubmit() {
		t.Fatal("form lost after failure")
	}
	if err := w.Submit(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if gw.LastCheckOut.Report != "Laporan kunjungan" {
		t.Fatalf("report = %q", gw.LastCheckOut.Report)
	}
}

func TestCheckOutRejectsClosedVisit(t *testing.T) {
	gw := rest.NewMockVisitGateway()
	closed := domain.Visit{ID: 7}
	at := closed.CheckInAt
	closed.CheckOutAt = &at
	gw.Visits[7] = closed

	w := NewCheckOutWorkflow(gw, location.Unavailable{}, fixedPhotoSource(testPhoto), nil)
	if err := w.Load(context.Background(), 7); err == nil {
		t.Fatal("expected error for already-closed visit")
	}
}
