// Package remote implements the storefront data sources over the HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/api/metrics"
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Source talks to the storefront API. It implements both ports.AuthSource and
// ports.OrderSource.
type Source struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var (
	_ ports.AuthSource  = (*Source)(nil)
	_ ports.OrderSource = (*Source)(nil)
)

// New returns a Source rooted at baseURL, e.g. "http://localhost:5000/api".
// A non-positive timeout falls back to ten seconds.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Source {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Source{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// errorBody is the failure envelope. Older backends use "error" instead of
// "message".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type authBody struct {
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}

func (s *Source) Register(ctx context.Context, in domain.Registration) (*ports.AuthPayload, error) {
	var body authBody
	if err := s.do(ctx, "register", http.MethodPost, "/auth/register", "", in, &body); err != nil {
		return nil, err
	}
	return toAuthPayload(body)
}

func (s *Source) Login(ctx context.Context, email, password string) (*ports.AuthPayload, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var body authBody
	if err := s.do(ctx, "login", http.MethodPost, "/auth/login", "", req, &body); err != nil {
		return nil, err
	}
	return toAuthPayload(body)
}

func toAuthPayload(body authBody) (*ports.AuthPayload, error) {
	out := &ports.AuthPayload{Token: body.Token, Message: body.Message}
	raw := bytes.TrimSpace(body.User)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	u, err := domain.DecodeUserPayload(raw)
	if err != nil {
		return nil, err
	}
	out.User = u
	return out, nil
}

// Me returns the {"user": {...}} envelope as a WrappedUser, or a bare user
// object as a RawUser.
func (s *Source) Me(ctx context.Context, token string) (domain.UserPayload, error) {
	var raw json.RawMessage
	if err := s.do(ctx, "me", http.MethodGet, "/auth/me", token, nil, &raw); err != nil {
		return nil, err
	}
	return domain.DecodeUserPayload(raw)
}

func (s *Source) SaveOrder(ctx context.Context, token string, o domain.Order) (*domain.Order, error) {
	var out domain.Order
	if err := s.do(ctx, "save_order", http.MethodPost, "/orders", token, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Source) GetOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	var out domain.Order
	if err := s.do(ctx, "get_order", http.MethodGet, "/orders/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Source) UserOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := s.do(ctx, "user_orders", http.MethodGet, "/orders/user", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) TrackOrder(ctx context.Context, token, id string) (*domain.Tracking, error) {
	var out domain.Tracking
	path := "/orders/" + url.PathEscape(id) + "/tracking"
	if err := s.do(ctx, "track_order", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one JSON request and decodes a 2xx body into out. Transport
// failures become *domain.ConnectivityError, 401/403 *domain.AuthError and
// every other failure status *domain.ServerError.
func (s *Source) do(ctx context.Context, op, method, path, token string, in, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.ClientRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		outcome = "network"
		return &domain.ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "network"
		return &domain.ConnectivityError{Op: op, Err: err}
	}

	s.log.Debug().
		Str("operation", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		msg := failureMessage(body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			outcome = "auth"
			return &domain.AuthError{Message: msg}
		}
		outcome = "server"
		return &domain.ServerError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		if out != nil {
			outcome = "server"
			return &domain.ServerError{Status: resp.StatusCode, Message: "Invalid response from server"}
		}
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = "server"
		s.log.Warn().Err(err).Str("operation", op).Msg("undecodable api response")
		return &domain.ServerError{Status: resp.StatusCode, Message: "Invalid response from server"}
	}
	return nil
}

func failureMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}
