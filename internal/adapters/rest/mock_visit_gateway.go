package rest

import (
	"context"
	"fmt"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/ports"
)

// MockVisitGateway is a scriptable in-memory gateway for workflow
// tests. Unset hooks fall back to permissive defaults; call counters
// record traffic per method.
type MockVisitGateway struct {
	Outlets map[int]domain.Outlet
	Visits  map[int]domain.Visit

	CheckVisitErr   error
	CreateVisitErr  error
	CompleteErr     error
	CreateVisitFn   func(sub ports.CheckInSubmission) (domain.Visit, error)
	CompleteVisitFn func(visitID int, sub ports.CheckOutSubmission) error

	CheckCalls    int
	CreateCalls   int
	CompleteCalls int
	LogoutCalls   int

	LastCheckIn  ports.CheckInSubmission
	LastCheckOut ports.CheckOutSubmission
}

func NewMockVisitGateway() *MockVisitGateway {
	return &MockVisitGateway{
		Outlets: make(map[int]domain.Outlet),
		Visits:  make(map[int]domain.Visit),
	}
}

func (m *MockVisitGateway) OutletByID(ctx context.Context, id int) (domain.Outlet, error) {
	o, ok := m.Outlets[id]
	if !ok {
		return domain.Outlet{}, fmt.Errorf("mock gateway: no outlet %d", id)
	}
	return o, nil
}

func (m *MockVisitGateway) VisitByID(ctx context.Context, id int) (domain.Visit, error) {
	v, ok := m.Visits[id]
	if !ok {
		return domain.Visit{}, fmt.Errorf("mock gateway: no visit %d", id)
	}
	return v, nil
}

func (m *MockVisitGateway) CheckVisitAllowed(ctx context.Context, outletID int) error {
	m.CheckCalls++
	return m.CheckVisitErr
}

func (m *MockVisitGateway) CreateVisit(ctx context.Context, sub ports.CheckInSubmission) (domain.Visit, error) {
	m.CreateCalls++
	m.LastCheckIn = sub
	if m.CreateVisitFn != nil {
		return m.CreateVisitFn(sub)
	}
	if m.CreateVisitErr != nil {
		return domain.Visit{}, m.CreateVisitErr
	}
	return domain.Visit{ID: 1, OutletID: sub.OutletID, Type: sub.VisitType}, nil
}

func (m *MockVisitGateway) CompleteVisit(ctx context.Context, visitID int, sub ports.CheckOutSubmission) error {
	m.CompleteCalls++
	m.LastCheckOut = sub
	if m.CompleteVisitFn != nil {
		return m.CompleteVisitFn(visitID, sub)
	}
	return m.CompleteErr
}

func (m *MockVisitGateway) Logout(ctx context.Context) error {
	m.LogoutCalls++
	return nil
}
