package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), 401, "missing authorization header"},
		{"validation", domain.NewValidationError("email is required"), 400, "email is required"},
		{"invalid order", fmt.Errorf("%w: order has no items", domain.ErrInvalidOrder), 400, "invalid order: order has no items"},
		{"credentials", domain.ErrInvalidCredentials, 401, "Invalid email or password"},
		{"forbidden", domain.ErrForbidden, 403, "Access forbidden"},
		{"order not found", fmt.Errorf("get: %w", domain.ErrOrderNotFound), 404, "Order not found"},
		{"user exists", domain.ErrUserExists, 409, "User already exists"},
		{"transition", domain.ErrInvalidTransition, 422, "invalid status transition"},
		{"unexpected", errors.New("mongo exploded"), 500, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body.Message)
			}
			if body.Error != http.StatusText(tc.wantCode) {
				t.Fatalf("unexpected error field %q", body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
