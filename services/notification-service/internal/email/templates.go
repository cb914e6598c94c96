package email

import (
	"fmt"
	"strings"
)

// BookingDetails is the subset of a booking event the mail bodies need.
type BookingDetails struct {
	BookingID string
	Name      string
	Email     string
	Country   string
	Age       string
	Phone     string
	Service   string
	Date      string
	Time      string
	PaymentID string
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

// NewBookingMessage is the practice-owner notification sent when a slot is
// reserved and payment is still outstanding.
func NewBookingMessage(b BookingDetails) (subject, body string) {
	subject = "New booking received"
	body = fmt.Sprintf(`New client booking (awaiting payment)

Name:    %s
Email:   %s
Phone:   %s
Age:     %s
Country: %s
Service: %s
Date:    %s
Time:    %s

Booking id: %s
`,
		b.Name, b.Email, orNA(b.Phone), orNA(b.Age), b.Country, orNA(b.Service), b.Date, b.Time, b.BookingID)
	return subject, body
}

// PaymentRequestMessage goes to the client with the payment link for the
// reserved slot.
func PaymentRequestMessage(b BookingDetails, payLink string) (subject, body string) {
	subject = "Your booking is reserved - complete payment"
	body = fmt.Sprintf(`Hi %s,

Your appointment on %s at %s is reserved and held for you.

To confirm it, please complete the payment: %s

If the payment does not go through, the slot is released again.

Booking id: %s
`,
		b.Name, b.Date, b.Time, payLink, b.BookingID)
	return subject, body
}

// ConfirmedMessage goes to the client once payment is confirmed.
func ConfirmedMessage(b BookingDetails) (subject, body string) {
	subject = "Your appointment is confirmed"
	body = fmt.Sprintf(`Hi %s,

Your payment was received and your appointment is confirmed.

Date: %s
Time: %s
Payment reference: %s

Booking id: %s

See you soon!
`,
		b.Name, b.Date, b.Time, orNA(b.PaymentID), b.BookingID)
	return subject, body
}
