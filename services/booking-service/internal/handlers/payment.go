package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindharbour/booking/services/booking-service/internal/model"
	"github.com/mindharbour/booking/services/booking-service/internal/outbox"
	"github.com/mindharbour/booking/services/booking-service/internal/storage"
)

type confirmPaymentRequest struct {
	BookingID string `json:"booking_id"`
	Succeeded bool   `json:"succeeded"`
	PaymentID string `json:"payment_id"`
}

type paymentStatusResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	PaymentID string `json:"payment_id,omitempty"`
}

// ConfirmPayment applies an externally reported payment outcome. The signal
// is trusted as-is (there is no gateway verification); a booking already in a
// terminal state is returned unchanged regardless of the reported outcome, so
// duplicate callbacks and client retries are safe.
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BookingID = strings.TrimSpace(req.BookingID)
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.BookingID == "" {
		http.Error(w, "booking_id required", http.StatusBadRequest)
		return
	}

	booking, err := h.applyOutcome(r.Context(), req.BookingID, req.Succeeded, req.PaymentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("payment confirmation failed", "err", err, "booking_id", req.BookingID)
		http.Error(w, "failed to process payment outcome", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, paymentStatusResponse{
		BookingID: booking.ID,
		Status:    string(booking.Status),
		PaymentID: booking.PaymentID,
	})
}

// Status is the polling endpoint: a pure read, safe at any frequency.
func (h *BookingHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("booking_id"))
	if id == "" {
		http.Error(w, "booking_id required", http.StatusBadRequest)
		return
	}
	if uuid.Validate(id) != nil {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	booking, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("status query failed", "err", err, "booking_id", id)
		http.Error(w, "failed to load booking", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, paymentStatusResponse{
		BookingID: booking.ID,
		Status:    string(booking.Status),
		PaymentID: booking.PaymentID,
	})
}

// applyOutcome is the single state-machine entry point shared by the payment
// callback and the admin overrides. The row lock serializes concurrent
// callbacks for the same booking; only the call that observes pending
// transitions, and only the transition into confirmed emits a notification.
func (h *BookingHandler) applyOutcome(ctx context.Context, bookingID string, succeeded bool, paymentID string) (model.Booking, error) {
	if uuid.Validate(bookingID) != nil {
		return model.Booking{}, storage.ErrNotFound
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := h.repo.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}

	next, changed := model.Apply(booking.Status, succeeded)
	if !changed {
		return booking, tx.Commit(ctx)
	}

	appliedPaymentID := ""
	if next == model.StatusConfirmed {
		appliedPaymentID = paymentID
	}
	updated, err := h.repo.SetStatus(ctx, tx, bookingID, next, appliedPaymentID)
	if err != nil {
		return model.Booking{}, err
	}

	if next == model.StatusConfirmed {
		payload, err := json.Marshal(map[string]any{
			"booking_id":   updated.ID,
			"name":         updated.Name,
			"email":        updated.Email,
			"date":         updated.SlotDate,
			"time":         updated.SlotTime,
			"payment_id":   updated.PaymentID,
			"confirmed_at": updated.UpdatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return model.Booking{}, err
		}
		if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
			AggregateType: "booking",
			AggregateID:   updated.ID,
			EventType:     outbox.EventPaymentConfirmed,
			Payload:       payload,
		}); err != nil {
			return model.Booking{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Booking{}, err
	}
	return updated, nil
}
