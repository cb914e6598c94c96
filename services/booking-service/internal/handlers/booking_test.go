package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindharbour/booking/services/booking-service/internal/model"
	"github.com/mindharbour/booking/services/booking-service/internal/slots"
)

// newValidationHandler builds a handler with no storage behind it. Requests
// that are rejected during validation must never reach the repository, so
// every test below doubles as a check that rejection precedes storage access.
func newValidationHandler(t *testing.T) *BookingHandler {
	t.Helper()
	set, err := slots.NewSet(nil)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return NewBookingHandler(nil, nil, slog.New(slog.DiscardHandler), set)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "http://example.com", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rw := httptest.NewRecorder()
	h(rw, req)
	return rw
}

func TestCreateRejectsMissingFields(t *testing.T) {
	h := newValidationHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing email", `{"name":"A","country":"IN","date":"2024-06-01","time":"10:00 AM"}`},
		{"blank name", `{"name":"  ","email":"a@x.com","country":"IN","date":"2024-06-01","time":"10:00 AM"}`},
		{"missing date", `{"name":"A","email":"a@x.com","country":"IN","time":"10:00 AM"}`},
		{"missing time", `{"name":"A","email":"a@x.com","country":"IN","date":"2024-06-01"}`},
	}
	for _, c := range cases {
		rw := postJSON(t, h.Create, c.body)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", c.name, rw.Code, rw.Body.String())
		}
	}
}

func TestCreateRejectsMalformedInput(t *testing.T) {
	h := newValidationHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"bad email", `{"name":"A","email":"nope","country":"IN","date":"2024-06-01","time":"10:00 AM"}`},
		{"bad date", `{"name":"A","email":"a@x.com","country":"IN","date":"01/06/2024","time":"10:00 AM"}`},
		{"unknown slot", `{"name":"A","email":"a@x.com","country":"IN","date":"2024-06-01","time":"11:00 AM"}`},
		{"negative age", `{"name":"A","email":"a@x.com","country":"IN","age":-1,"date":"2024-06-01","time":"10:00 AM"}`},
	}
	for _, c := range cases {
		rw := postJSON(t, h.Create, c.body)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", c.name, rw.Code, rw.Body.String())
		}
	}
}

func TestCreateMethodNotAllowed(t *testing.T) {
	h := newValidationHandler(t)
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	rw := httptest.NewRecorder()
	h.Create(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}

func TestParseCreateRequestNormalizes(t *testing.T) {
	h := newValidationHandler(t)
	age := 30
	booking, problem := h.parseCreateRequest(createBookingRequest{
		Name:    "  Asha  ",
		Email:   " asha@example.com ",
		Country: " IN ",
		Age:     &age,
		Phone:   " +91 98765 ",
		Service: " Therapy ",
		Date:    " 2024-06-01 ",
		Time:    "10:00 am",
	})
	if problem != "" {
		t.Fatalf("unexpected problem: %s", problem)
	}
	if booking.Name != "Asha" || booking.Email != "asha@example.com" || booking.Country != "IN" {
		t.Fatalf("fields not trimmed: %+v", booking)
	}
	if booking.SlotDate != "2024-06-01" || booking.SlotTime != "10:00 AM" {
		t.Fatalf("slot not normalized: %q %q", booking.SlotDate, booking.SlotTime)
	}
	if booking.Status != model.StatusPending {
		t.Fatalf("new booking must start pending, got %s", booking.Status)
	}
}

func TestConfirmPaymentUnknownIDShape(t *testing.T) {
	h := newValidationHandler(t)

	// Ids that cannot be booking ids resolve to not-found without any storage.
	rw := postJSON(t, h.ConfirmPayment, `{"booking_id":"unknown-id","succeeded":true}`)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rw.Code, rw.Body.String())
	}

	rw = postJSON(t, h.ConfirmPayment, `{"succeeded":true}`)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing booking_id, got %d", rw.Code)
	}
}

func TestStatusUnknownIDShape(t *testing.T) {
	h := newValidationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "http://example.com?booking_id=unknown-id", nil)
	rw := httptest.NewRecorder()
	h.Status(rw, req)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rw.Code)
	}

	reqMissing := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	rwMissing := httptest.NewRecorder()
	h.Status(rwMissing, reqMissing)
	if rwMissing.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing booking_id, got %d", rwMissing.Code)
	}
}

func TestSlotsRejectsBadDate(t *testing.T) {
	h := newValidationHandler(t)
	req := httptest.NewRequest(http.MethodGet, "http://example.com?date=junk", nil)
	rw := httptest.NewRecorder()
	h.Slots(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}
