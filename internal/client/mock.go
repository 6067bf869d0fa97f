package client

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const (
	mockMessage     = "Mock data (API unavailable)"
	mockTokenPrefix = "mock_token_"
	mockDelivery    = 3 * 24 * time.Hour
)

// mockAccounts is the fixed table of demo accounts, in lookup order.
var mockAccounts = []domain.RawUser{
	{
		ID:        "1",
		Role:      string(domain.RoleAdmin),
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@example.com",
		Username:  "admin_user",
		Phone:     "+1 234 567 8900",
	},
	{
		ID:        "2",
		Role:      string(domain.RoleUser),
		FirstName: "Demo",
		LastName:  "User",
		Email:     "demo@example.com",
		Username:  "demo_user",
		Phone:     "+1 234 567 8901",
	},
	{
		ID:        "3",
		Role:      string(domain.RoleDelivery),
		FirstName: "Delivery",
		LastName:  "User",
		Email:     "delivery@example.com",
		Username:  "delivery_user",
		Phone:     "+1 234 567 8902",
	},
}

var mockShipping = domain.ShippingInfo{
	FirstName: "John",
	LastName:  "Doe",
	Address:   "123 Main St",
	City:      "Tirana",
	ZipCode:   "1000",
	Country:   "Albania",
	Phone:     "+355 69 123 4567",
}

var mockPayment = domain.PaymentInfo{
	Method:       "credit",
	CardName:     "John Doe",
	CardLastFour: "1234",
}

// MockSource is the offline stand-in for the remote API. It serves the demo
// accounts, echoes saved orders back with a synthesized id, and remembers
// those orders so they can be fetched and tracked afterwards.
type MockSource struct {
	session *Session
	now     func() time.Time
	intn    func(n int) int

	mu     sync.Mutex
	orders map[string]domain.Order
}

var (
	_ ports.AuthSource  = (*MockSource)(nil)
	_ ports.OrderSource = (*MockSource)(nil)
)

// NewMockSource returns a MockSource that reads the current user back from
// session.
func NewMockSource(session *Session) *MockSource {
	return &MockSource{
		session: session,
		now:     time.Now,
		intn:    rand.IntN,
		orders:  make(map[string]domain.Order),
	}
}

func (m *MockSource) token() string {
	return mockTokenPrefix + strconv.FormatInt(m.now().UnixMilli(), 10)
}

// Register merges the submitted fields over the demo user template. The new
// account always gets the user role.
func (m *MockSource) Register(_ context.Context, in domain.Registration) (*ports.AuthPayload, error) {
	u := mockAccounts[1]
	u.ID = domain.FlexID(strconv.FormatInt(m.now().UnixMilli(), 10))
	u.Role = string(domain.RoleUser)
	overlay(&u.Email, in.Email)
	overlay(&u.FirstName, in.FirstName)
	overlay(&u.LastName, in.LastName)
	overlay(&u.Username, in.Username)
	overlay(&u.Phone, in.Phone)
	overlay(&u.Address, in.Address)

	return &ports.AuthPayload{User: u, Token: m.token(), Message: mockMessage, Mock: true}, nil
}

// Login accepts any password for a demo account. The email must match
// exactly.
func (m *MockSource) Login(_ context.Context, email, _ string) (*ports.AuthPayload, error) {
	for _, u := range mockAccounts {
		if u.Email == email {
			return &ports.AuthPayload{User: u, Token: m.token(), Message: mockMessage, Mock: true}, nil
		}
	}
	return nil, domain.NewAuthError("Invalid email or password")
}

// Me replays the user persisted in the session. It returns nil when there is
// none.
func (m *MockSource) Me(ctx context.Context, _ string) (domain.UserPayload, error) {
	return m.session.StoredPayload(ctx)
}

// SaveOrder returns the order as a new pending order. It never fails.
func (m *MockSource) SaveOrder(_ context.Context, _ string, o domain.Order) (*domain.Order, error) {
	now := m.now()
	if o.ID == "" {
		o.ID = fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), m.intn(1000))
	}
	o.Status = domain.StatusPending
	o.CreatedAt = now
	o.EstimatedDelivery = now.Add(mockDelivery)
	o.StatusHistory = []domain.LocationUpdate{{
		Status:    domain.StatusPending,
		Location:  "Warehouse",
		Timestamp: now,
		Notes:     "Order received",
	}}
	if o.Total == 0 {
		o.Total = o.ItemsTotal()
	}

	m.mu.Lock()
	m.orders[o.ID] = o
	m.mu.Unlock()

	out := o
	return &out, nil
}

func (m *MockSource) GetOrder(_ context.Context, _, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

// UserOrders returns two fixed historical orders.
func (m *MockSource) UserOrders(_ context.Context, _ string) ([]domain.Order, error) {
	now := m.now()
	return []domain.Order{
		{
			ID:           fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), m.intn(1000)),
			Status:       domain.StatusDelivered,
			CreatedAt:    now.Add(-30 * 24 * time.Hour),
			Items:        []domain.OrderItem{{ID: "mock-product-1", Name: "Mock Product 1", Quantity: 1, Price: 29.99}},
			ShippingInfo: mockShipping,
			PaymentInfo:  mockPayment,
			Total:        29.99,
		},
		{
			ID:           fmt.Sprintf("ORD-%d-%d", now.Add(-time.Second).UnixMilli(), m.intn(1000)),
			Status:       domain.StatusProcessing,
			CreatedAt:    now.Add(-5 * 24 * time.Hour),
			Items:        []domain.OrderItem{{ID: "mock-product-2", Name: "Mock Product 2", Quantity: 2, Price: 19.99}},
			ShippingInfo: mockShipping,
			PaymentInfo:  mockPayment,
			Total:        39.98,
		},
	}, nil
}

func (m *MockSource) TrackOrder(ctx context.Context, token, id string) (*domain.Tracking, error) {
	o, err := m.GetOrder(ctx, token, id)
	if err != nil {
		return nil, err
	}
	return domain.TrackingFromOrder(o), nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
