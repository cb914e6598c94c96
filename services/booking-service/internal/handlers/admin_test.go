package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRequireAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAdmin(ok, string(hash))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer s3cret-token")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rw.Code)
	}

	reqBad := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqBad.Header.Set("Authorization", "Bearer wrong")
	rwBad := httptest.NewRecorder()
	h.ServeHTTP(rwBad, reqBad)
	if rwBad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rwBad.Code)
	}

	reqNone := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	rwNone := httptest.NewRecorder()
	h.ServeHTTP(rwNone, reqNone)
	if rwNone.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rwNone.Code)
	}
}

func TestRequireAdminDisabledWithoutHash(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "")

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when no hash configured, got %d", rw.Code)
	}
}

func TestAdminOutcomeValidation(t *testing.T) {
	h := newValidationHandler(t)

	rw := postJSON(t, h.MarkPaid, `{}`)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing booking_id, got %d", rw.Code)
	}

	rw = postJSON(t, h.MarkFailed, `{"booking_id":"not-a-uuid"}`)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rw.Code)
	}
}
