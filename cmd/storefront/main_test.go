package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-1"

var testUser = map[string]any{
	"id": "u1", "email": "alice@shop.test", "role": "user",
	"firstName": "Alice", "lastName": "Archer", "phone": "+1 555 0100",
}

var testOrder = map[string]any{
	"id": "ORD-1", "status": "shipped", "total": 10,
	"items":        []map[string]any{{"id": "p1", "name": "Mug", "quantity": 2, "price": 5}},
	"shippingInfo": map[string]any{"firstName": "Alice", "address": "1 Main St", "city": "Tirana"},
	"paymentInfo":  map[string]any{"method": "credit"},
}

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	authed := func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer "+testToken }
	reply := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "alice@shop.test" || in.Password != "pw" {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "message": "Invalid email or password"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"user": testUser, "token": testToken, "message": "Login successful"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"user": testUser})
	})
	mux.HandleFunc("GET /api/orders/user", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []any{testOrder})
	})
	mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "ORD-1" {
			reply(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
			return
		}
		reply(w, http.StatusOK, testOrder)
	})
	mux.HandleFunc("GET /api/orders/{id}/tracking", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"orderId": r.PathValue("id"), "status": "shipped", "currentLocation": "Durres",
			"updates": []map[string]any{{"status": "shipped", "location": "Durres", "timestamp": "2026-03-01T12:00:00Z"}},
		})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var o map[string]any
		_ = json.NewDecoder(r.Body).Decode(&o)
		o["id"] = "ORD-2"
		o["status"] = "pending"
		reply(w, http.StatusCreated, o)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_Subcommands(t *testing.T) {
	srv := newTestAPI(t)
	dir := t.TempDir()
	orderFile := filepath.Join(dir, "order.json")
	raw, err := json.Marshal(testOrder)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(orderFile, raw, 0o600))

	t.Setenv("STOREFRONT_API_URL", srv.URL+"/api")
	t.Setenv("STOREFRONT_ENABLE_MOCK_API", "false")
	t.Setenv("STOREFRONT_SESSION_STORE", "file")
	t.Setenv("STOREFRONT_SESSION_FILE", filepath.Join(dir, "session.json"))

	// Steps share the session file, so they run in order.
	steps := []struct {
		name    string
		cmd     string
		args    []string
		wantErr string
		want    []string
	}{
		{name: "whoami before login", cmd: "whoami", wantErr: "not signed in"},
		{name: "bad password", cmd: "login", args: []string{"-email", "alice@shop.test", "-password", "nope"}, wantErr: "Invalid email or password"},
		{name: "login", cmd: "login", args: []string{"-email", "alice@shop.test", "-password", "pw"}, want: []string{`"id": "u1"`, `"name": "Alice Archer"`}},
		{name: "whoami", cmd: "whoami", want: []string{`"email": "alice@shop.test"`}},
		{name: "profile", cmd: "profile", want: []string{`"phone": "+1 555 0100"`}},
		{name: "orders", cmd: "orders", want: []string{`"id": "ORD-1"`}},
		{name: "order", cmd: "order", args: []string{"-id", "ORD-1"}, want: []string{`"status": "shipped"`}},
		{name: "missing order", cmd: "order", args: []string{"-id", "ORD-9"}, wantErr: "Order not found"},
		{name: "track", cmd: "track", args: []string{"-id", "ORD-1"}, want: []string{`"currentLocation": "Durres"`}},
		{name: "checkout", cmd: "checkout", args: []string{"-file", orderFile}, want: []string{`"id": "ORD-2"`, `"status": "pending"`}},
		{name: "checkout without file", cmd: "checkout", wantErr: "an order file is required"},
		{name: "logout", cmd: "logout", want: []string{"signed out"}},
		{name: "whoami after logout", cmd: "whoami", wantErr: "not signed in"},
		{name: "unknown command", cmd: "dance", wantErr: `unknown command "dance"`},
	}

	for _, st := range steps {
		var out bytes.Buffer
		err := run(context.Background(), st.cmd, st.args, &out)
		if st.wantErr != "" {
			require.Error(t, err, st.name)
			assert.Contains(t, err.Error(), st.wantErr, st.name)
			continue
		}
		require.NoError(t, err, st.name)
		for _, w := range st.want {
			assert.Contains(t, out.String(), w, st.name)
		}
	}
}
