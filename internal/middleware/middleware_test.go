package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/metrics"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTracingAssignsRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := NewTracingMiddleware(logger.NewDefault("test")).Handler(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("expected header %q to match context id %q", got, seen)
	}
}

func TestTracingHonoursIncomingRequestID(t *testing.T) {
	handler := NewTracingMiddleware(nil).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied" {
		t.Fatalf("expected caller id to be kept, got %q", got)
	}
}

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	handler := NewRecoveryMiddleware(logger.NewDefault("test")).Handler(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("store exploded")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	limiter := NewRateLimitMiddleware(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
	})
	defer limiter.Stop()
	handler := limiter.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected burst to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %v", codes)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	limiter := NewRateLimitMiddleware(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
	})
	defer limiter.Stop()
	handler := limiter.Handler(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first client first request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("first client second request: expected 429, got %d", code)
	}
	// A different client has its own bucket.
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORSMiddleware([]string{"*"}).Handler(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected allow-methods header")
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got == "" {
		t.Fatal("expected expose-headers header for CSV downloads")
	}
}

func TestRateLimitStopIsIdempotent(t *testing.T) {
	limiter := NewRateLimitMiddleware(DefaultRateLimitConfig())
	limiter.Stop()
	limiter.Stop()
}

func TestMetricsMiddlewareLabelsRouteTemplate(t *testing.T) {
	registry := metrics.NewRegistry()

	router := mux.NewRouter()
	router.Use(NewMetricsMiddleware(registry).Handler)
	router.HandleFunc("/api/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	const id = "0b7e6f3a-9c1d-4f2e-8a5b-1d2e3f4a5b6c"
	req := httptest.NewRequest(http.MethodGet, "/api/clients/"+id, nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	scrape := httptest.NewRecorder()
	registry.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/", nil))
	body := scrape.Body.String()

	if !strings.Contains(body, `path="/api/clients/{id}"`) {
		t.Fatalf("expected series labeled with the route template, got:\n%s", body)
	}
	// Raw paths would mint one series per entity id.
	if strings.Contains(body, id) {
		t.Fatal("raw request path leaked into metric labels")
	}
}
