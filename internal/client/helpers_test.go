package client

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
	"github.com/shopfront/storefront/internal/infrastructure/session"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestSession() *Session {
	return NewSession(session.NewMemoryStore())
}

func newTestMock(s *Session) *MockSource {
	m := NewMockSource(s)
	m.now = fixedClock
	m.intn = func(int) int { return 42 }
	return m
}

// mockAuthSource is a testify mock of ports.AuthSource.
type mockAuthSource struct {
	mock.Mock
}

func (m *mockAuthSource) Register(ctx context.Context, in domain.Registration) (*ports.AuthPayload, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*ports.AuthPayload)
	return p, args.Error(1)
}

func (m *mockAuthSource) Login(ctx context.Context, email, password string) (*ports.AuthPayload, error) {
	args := m.Called(ctx, email, password)
	p, _ := args.Get(0).(*ports.AuthPayload)
	return p, args.Error(1)
}

func (m *mockAuthSource) Me(ctx context.Context, token string) (domain.UserPayload, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(domain.UserPayload)
	return p, args.Error(1)
}

// mockOrderSource is a testify mock of ports.OrderSource.
type mockOrderSource struct {
	mock.Mock
}

func (m *mockOrderSource) SaveOrder(ctx context.Context, token string, o domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, token, o)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

func (m *mockOrderSource) GetOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	args := m.Called(ctx, token, id)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

func (m *mockOrderSource) UserOrders(ctx context.Context, token string) ([]domain.Order, error) {
	args := m.Called(ctx, token)
	out, _ := args.Get(0).([]domain.Order)
	return out, args.Error(1)
}

func (m *mockOrderSource) TrackOrder(ctx context.Context, token, id string) (*domain.Tracking, error) {
	args := m.Called(ctx, token, id)
	out, _ := args.Get(0).(*domain.Tracking)
	return out, args.Error(1)
}

func networkErr(op string) error {
	return &domain.ConnectivityError{Op: op, Err: context.DeadlineExceeded}
}

func rawUser(id, email, role string) domain.RawUser {
	return domain.RawUser{ID: domain.FlexID(id), Email: email, Role: role, FirstName: "Ana", LastName: "Hoxha"}
}

var nopLog = zerolog.Nop()
