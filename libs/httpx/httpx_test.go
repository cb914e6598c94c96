package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if rw.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header %q does not match context id %q", rw.Header().Get(RequestIDHeader), seen)
	}

	reqWithID := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqWithID.Header.Set(RequestIDHeader, "client-supplied")
	rwWithID := httptest.NewRecorder()
	h.ServeHTTP(rwWithID, reqWithID)
	if seen != "client-supplied" {
		t.Fatalf("expected client-supplied id to be kept, got %q", seen)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, req)
		if rw.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rw.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", rw.Code)
	}

	// A different client is not affected.
	reqOther := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqOther.RemoteAddr = "10.0.0.2:1234"
	rwOther := httptest.NewRecorder()
	h.ServeHTTP(rwOther, reqOther)
	if rwOther.Code != http.StatusOK {
		t.Fatalf("expected 200 for other client, got %d", rwOther.Code)
	}
}

func TestWithCORS(t *testing.T) {
	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		WithCORS(CORSPolicy{
			AllowedOrigins: []string{"https://mind-harbour.vercel.app"},
			AllowedMethods: []string{"GET", "POST"},
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Origin", "https://mind-harbour.vercel.app")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if got := rw.Header().Get("Access-Control-Allow-Origin"); got != "https://mind-harbour.vercel.app" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}

	reqBlocked := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqBlocked.Header.Set("Origin", "https://evil.example")
	rwBlocked := httptest.NewRecorder()
	h.ServeHTTP(rwBlocked, reqBlocked)
	if got := rwBlocked.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin for unknown origin, got %q", got)
	}
}

func TestSplitOrigins(t *testing.T) {
	got := SplitOrigins(" https://a.example, ,https://b.example ")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
