package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"expensed/internal/middleware/ratelimit"
	"expensed/internal/services"
	"expensed/internal/storage"
)

// newTestServer wires the real repository and service against a temp
// database so handler tests exercise the full stack.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "http_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc := services.NewExpenseService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return NewServer(":0", svc, "*", nil)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("root status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Expense Tracker API") {
		t.Fatalf("root body: %s", rr.Body.String())
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	repo, err := storage.Open(filepath.Join(t.TempDir(), "cors_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc := services.NewExpenseService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	srv := NewServer(":0", svc, "http://localhost:3001", nil)

	rr := doRequest(t, srv, http.MethodGet, "/expenses", "")
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3001" {
		t.Fatalf("expected configured origin, got %q", got)
	}

	// Preflight never reaches a handler.
	rr = doRequest(t, srv, http.MethodOptions, "/expenses", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight missing allow-methods header")
	}
}

func TestRateLimiting(t *testing.T) {
	repo, err := storage.Open(filepath.Join(t.TempDir(), "rl_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc := services.NewExpenseService(repo, nil)
	t.Cleanup(func() { svc.Close() })

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 2})
	t.Cleanup(limiter.Stop)
	srv := NewServer(":0", svc, "*", limiter)

	for i := 0; i < 2; i++ {
		rr := doRequest(t, srv, http.MethodGet, "/expenses", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i+1, rr.Code)
		}
	}

	rr := doRequest(t, srv, http.MethodGet, "/expenses", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatal("expected Retry-After header")
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodGet, "/no-such-path", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
