package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mindharbour/booking/services/booking-service/internal/model"
	"github.com/mindharbour/booking/services/booking-service/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin guards the admin surface with a static bearer token compared
// against a bcrypt hash from configuration. With no hash configured the
// surface is disabled outright rather than left open.
func RequireAdmin(next http.Handler, tokenHash string) http.Handler {
	tokenHash = strings.TrimSpace(tokenHash)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHash == "" {
			http.Error(w, "admin api disabled", http.StatusServiceUnavailable)
			return
		}
		authz := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(strings.TrimSpace(token))) != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type adminOutcomeRequest struct {
	BookingID string `json:"booking_id"`
	PaymentID string `json:"payment_id"`
}

type adminBookingItem struct {
	BookingID string `json:"booking_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Age       *int   `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Service   string `json:"service,omitempty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
	PaymentID string `json:"payment_id,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MarkPaid and MarkFailed are manual overrides for when a payment outcome
// never arrives. They run through the same state machine as the payment
// callback, so terminal bookings are returned unchanged here too.

func (h *BookingHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.adminOutcome(w, r, true)
}

func (h *BookingHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	h.adminOutcome(w, r, false)
}

func (h *BookingHandler) adminOutcome(w http.ResponseWriter, r *http.Request, succeeded bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req adminOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BookingID = strings.TrimSpace(req.BookingID)
	if req.BookingID == "" {
		http.Error(w, "booking_id required", http.StatusBadRequest)
		return
	}

	booking, err := h.applyOutcome(r.Context(), req.BookingID, succeeded, strings.TrimSpace(req.PaymentID))
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("admin outcome failed", "err", err, "booking_id", req.BookingID)
		http.Error(w, "failed to update booking", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, paymentStatusResponse{
		BookingID: booking.ID,
		Status:    string(booking.Status),
		PaymentID: booking.PaymentID,
	})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	bookings, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("booking list failed", "err", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	items := make([]adminBookingItem, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, adminBookingItemFrom(b))
	}
	writeJSON(w, http.StatusOK, items)
}

func adminBookingItemFrom(b model.Booking) adminBookingItem {
	return adminBookingItem{
		BookingID: b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Country:   b.Country,
		Age:       b.Age,
		Phone:     b.Phone,
		Service:   b.Service,
		Date:      b.SlotDate,
		Time:      b.SlotTime,
		Status:    string(b.Status),
		PaymentID: b.PaymentID,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
