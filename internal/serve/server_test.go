package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(config ServeConfig) *Server {
	return NewServer(config)
}

// ============================================================================
// Route Tests
// ============================================================================

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(ServeConfig{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.OK {
		t.Error("ok = false, want true")
	}
}

func TestStylesheetEndpoint(t *testing.T) {
	srv := newTestServer(ServeConfig{Token: "secret-token"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/darktalk.css")
	if err != nil {
		t.Fatalf("GET /darktalk.css: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 without auth", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/css; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if len(stylesheet) == 0 {
		t.Error("embedded stylesheet is empty")
	}
}

// ============================================================================
// Auth Middleware Tests
// ============================================================================

func TestAuthMiddleware_NoTokenConfigured(t *testing.T) {
	srv := newTestServer(ServeConfig{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/dialogs")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong-token", http.StatusUnauthorized},
		{"invalid format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"correct token", "Bearer secret-token", http.StatusOK},
	}

	srv := newTestServer(ServeConfig{Token: "secret-token"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", ts.URL+"/v1/dialogs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("GET /v1/dialogs: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				var env Envelope
				if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if env.Error == nil || env.Error.Code != ErrUnauthorized {
					t.Errorf("error.code = %v, want %s", env.Error, ErrUnauthorized)
				}
			}
		})
	}
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	srv := newTestServer(ServeConfig{Token: "secret-token"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, health should skip auth", resp.StatusCode)
	}
}

// ============================================================================
// CORS Middleware Tests
// ============================================================================

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		origin     string
		wantHeader string
	}{
		{"not configured", "", "http://example.com", ""},
		{"matching origin", "http://localhost:3000", "http://localhost:3000", "http://localhost:3000"},
		{"other origin", "http://localhost:3000", "http://evil.com", ""},
		{"wildcard", "*", "http://any.com", "http://any.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(ServeConfig{CORSOrigin: tt.configured})
			ts := httptest.NewServer(srv.Handler())
			defer ts.Close()

			req, _ := http.NewRequest("GET", ts.URL+"/v1/dialogs", nil)
			req.Header.Set("Origin", tt.origin)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if h := resp.Header.Get("Access-Control-Allow-Origin"); h != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", h, tt.wantHeader)
			}
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	srv := newTestServer(ServeConfig{CORSOrigin: "*", Token: "secret-token"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	req, _ := http.NewRequest("OPTIONS", ts.URL+"/v1/dialogs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
}

// ============================================================================
// Recovery Middleware Tests
// ============================================================================

func TestRecoveryMiddleware(t *testing.T) {
	srv := newTestServer(ServeConfig{})
	h := srv.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error == nil || env.Error.Code != ErrInternal {
		t.Errorf("error.code = %v, want %s", env.Error, ErrInternal)
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(ServeConfig{Addr: "127.0.0.1", Port: 0})
	ln, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
