package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const testSecret = "router-secret"

type fakeAuth struct{}

func (fakeAuth) Register(_ context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return "tok", &domain.User{ID: "u-new", Email: in.Email, Role: in.Role}, nil
}

func (fakeAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Me(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Role: domain.RoleUser}, nil
}

type fakeOrders struct{}

func (fakeOrders) CreateOrder(_ context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	return &domain.Order{ID: "ORD-1", UserID: in.Requester.UserID, Status: domain.StatusPending}, nil
}

func (fakeOrders) GetOrder(context.Context, string, ports.Requester) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (fakeOrders) ListUserOrders(_ context.Context, who ports.Requester) ([]*domain.Order, error) {
	return []*domain.Order{{ID: "ORD-1", UserID: who.UserID}}, nil
}

func (fakeOrders) Track(_ context.Context, id string, _ ports.Requester) (*domain.Tracking, error) {
	return &domain.Tracking{OrderID: id, Status: domain.StatusPending}, nil
}

type fakeProducts struct{}

func (fakeProducts) ListProducts(context.Context) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (fakeProducts) CreateProduct(_ context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return &domain.Product{ID: "p1", Name: in.Name, Price: in.Price}, nil
}

type countingDispatcher struct{ n int }

func (d *countingDispatcher) Enqueue(ports.TrackingEventInput)          { d.n++ }
func (d *countingDispatcher) EnqueueBatch(es []ports.TrackingEventInput) { d.n += len(es) }

func newTestRouter(t *testing.T) (*echo.Echo, *countingDispatcher) {
	t.Helper()
	d := &countingDispatcher{}
	e := NewRouter(Deps{
		AuthService:    fakeAuth{},
		OrderService:   fakeOrders{},
		ProductService: fakeProducts{},
		Dispatcher:     d,
		JWTSecret:      testSecret,
		Log:            zerolog.Nop(),
		Registerer:     prometheus.NewRegistry(),
	})
	return e, d
}

func bearer(t *testing.T, sub string, role domain.Role) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func serve(e *echo.Echo, method, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	e, _ := newTestRouter(t)
	if rec := serve(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with no checks configured, got %d", rec.Code)
	}
}

func TestRouter_MeRequiresToken(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/api/auth/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = serve(e, http.MethodGet, "/api/auth/me", "", bearer(t, "u-1", domain.RoleUser))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_LoginFailureEnvelope(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"x"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] != "Invalid email or password" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRouter_GuestCheckoutAndOwnedListing(t *testing.T) {
	e, _ := newTestRouter(t)

	body := `{"items":[{"id":"p1","name":"Lamp","quantity":1,"price":5}],
		"shippingInfo":{"firstName":"A","lastName":"B","address":"1 St","city":"C","country":"D"},
		"paymentInfo":{"method":"cash"}}`
	if rec := serve(e, http.MethodPost, "/api/orders", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("guest checkout: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodGet, "/api/orders/user", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous history: expected 401, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/orders/user", "", bearer(t, "u-1", domain.RoleUser)); rec.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/orders/ORD-9", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", rec.Code)
	}
}

func TestRouter_TrackingEventsRequireStaff(t *testing.T) {
	e, d := newTestRouter(t)
	body := `{"orderId":"ORD-1","status":"processing","timestamp":"2026-03-01T12:00:00Z","source":"admin"}`

	if rec := serve(e, http.MethodPost, "/api/tracking/events", body, bearer(t, "u-2", domain.RoleUser)); rec.Code != http.StatusForbidden {
		t.Fatalf("user role: expected 403, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodPost, "/api/tracking/events", body, bearer(t, "u-3", domain.RoleDelivery)); rec.Code != http.StatusAccepted {
		t.Fatalf("delivery role: expected 202, got %d", rec.Code)
	}
	if d.n != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", d.n)
	}
}

func TestRouter_ProductCreateAdminOnly(t *testing.T) {
	e, _ := newTestRouter(t)
	body := `{"name":"Desk","price":10}`

	if rec := serve(e, http.MethodPost, "/api/products", body, bearer(t, "u-3", domain.RoleDelivery)); rec.Code != http.StatusForbidden {
		t.Fatalf("delivery role: expected 403, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodPost, "/api/products", body, bearer(t, "u-1", domain.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Fatalf("admin role: expected 201, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/products", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("public list: expected 200, got %d", rec.Code)
	}
}
