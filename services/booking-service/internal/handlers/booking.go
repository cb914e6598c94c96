package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mindharbour/booking/services/booking-service/internal/model"
	"github.com/mindharbour/booking/services/booking-service/internal/outbox"
	"github.com/mindharbour/booking/services/booking-service/internal/slots"
	"github.com/mindharbour/booking/services/booking-service/internal/storage"
)

type BookingHandler struct {
	repo       *storage.BookingRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
	slots      *slots.Set
}

func NewBookingHandler(repo *storage.BookingRepository, outboxRepo *outbox.Repository, logger *slog.Logger, slotSet *slots.Set) *BookingHandler {
	return &BookingHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     logger,
		slots:      slotSet,
	}
}

type createBookingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
	Age     *int   `json:"age"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type createBookingResponse struct {
	BookingID string `json:"booking_id"`
}

type availableSlotsResponse struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
}

// parseCreateRequest validates and normalizes the request into a pending
// booking. All rejections happen here, before any storage access.
func (h *BookingHandler) parseCreateRequest(req createBookingRequest) (*model.Booking, string) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Country = strings.TrimSpace(req.Country)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Service = strings.TrimSpace(req.Service)

	if req.Name == "" || req.Email == "" || req.Country == "" || req.Date == "" || req.Time == "" {
		return nil, "name, email, country, date and time are required"
	}
	if !strings.Contains(req.Email, "@") {
		return nil, "invalid email"
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		return nil, "invalid age"
	}

	date, err := slots.NormalizeDate(req.Date)
	if err != nil {
		return nil, "invalid date (expected YYYY-MM-DD)"
	}
	slotTime, ok := h.slots.Normalize(req.Time)
	if !ok {
		return nil, "time must be one of the offered slots"
	}

	return &model.Booking{
		Name:     req.Name,
		Email:    req.Email,
		Country:  req.Country,
		Age:      req.Age,
		Phone:    req.Phone,
		Service:  req.Service,
		SlotDate: date,
		SlotTime: slotTime,
		Status:   model.StatusPending,
	}, ""
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	booking, problem := h.parseCreateRequest(req)
	if problem != "" {
		http.Error(w, problem, http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Fast path for a slot that is already held. The unique index makes the
	// insert below the real arbiter, so a stale answer here only costs a tx.
	taken, err := h.repo.SlotTaken(ctx, booking.SlotDate, booking.SlotTime)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if taken {
		http.Error(w, "time slot already booked: "+booking.SlotDate+" "+booking.SlotTime, http.StatusConflict)
		return
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.repo.Create(ctx, tx, booking)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked: "+booking.SlotDate+" "+booking.SlotTime, http.StatusConflict)
			return
		}
		h.logger.Error("booking insert failed", "err", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	evtPayload, err := json.Marshal(bookingEventPayload(*booking))
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   id,
		EventType:     outbox.EventBookingCreated,
		Payload:       evtPayload,
	}); err != nil {
		h.logger.Error("outbox insert failed", "err", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{BookingID: id})
}

// Slots answers the advisory availability query: the configured labels minus
// those held by a pending or confirmed booking on the given day. It reads the
// same predicate the insert guard enforces, so it can be stale across a
// concurrent reserve but never more lenient than the rule itself.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date, err := slots.NormalizeDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	booked, err := h.repo.BookedTimes(r.Context(), date)
	if err != nil {
		h.logger.Error("booked times query failed", "err", err)
		http.Error(w, "failed to load slots", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, availableSlotsResponse{
		Date:      date,
		Available: h.slots.Available(booked),
	})
}

func bookingEventPayload(b model.Booking) map[string]any {
	payload := map[string]any{
		"booking_id": b.ID,
		"name":       b.Name,
		"email":      b.Email,
		"country":    b.Country,
		"phone":      b.Phone,
		"service":    b.Service,
		"date":       b.SlotDate,
		"time":       b.SlotTime,
		"status":     string(b.Status),
		"created_at": b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.Age != nil {
		payload["age"] = *b.Age
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
