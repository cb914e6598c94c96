package model

import "time"

// Status is the payment lifecycle state of a booking.
// pending is the only non-terminal state; confirmed and cancelled accept no
// further transitions. Only pending and confirmed bookings occupy their slot.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Apply resolves a payment outcome against the current status. It returns the
// next status and whether a transition actually happens; terminal states are
// returned unchanged so repeated confirmation callbacks stay idempotent.
func Apply(current Status, succeeded bool) (Status, bool) {
	if current.Terminal() {
		return current, false
	}
	if succeeded {
		return StatusConfirmed, true
	}
	return StatusCancelled, true
}

type Booking struct {
	ID        string
	Name      string
	Email     string
	Country   string
	Age       *int
	Phone     string
	Service   string
	SlotDate  string // canonical YYYY-MM-DD
	SlotTime  string // canonical label, e.g. "10:00 AM"
	Status    Status
	PaymentID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
