package email

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@x.com", "to@y.com", "Hello", "Body line")
	for _, want := range []string{
		"From: from@x.com\r\n",
		"To: to@y.com\r\n",
		"Subject: Hello\r\n",
		"\r\n\r\nBody line\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestTemplates(t *testing.T) {
	b := BookingDetails{
		BookingID: "b-1",
		Name:      "Asha",
		Email:     "asha@example.com",
		Country:   "IN",
		Date:      "2024-06-01",
		Time:      "10:00 AM",
		PaymentID: "P1",
	}

	subject, body := NewBookingMessage(b)
	if subject == "" || !strings.Contains(body, "Asha") || !strings.Contains(body, "b-1") {
		t.Fatalf("owner message incomplete:\n%s", body)
	}
	if !strings.Contains(body, "N/A") {
		t.Fatalf("empty optional fields should render as N/A:\n%s", body)
	}

	_, body = PaymentRequestMessage(b, "upi://pay?pa=x@bank")
	if !strings.Contains(body, "upi://pay?pa=x@bank") || !strings.Contains(body, "10:00 AM") {
		t.Fatalf("payment request missing link or slot:\n%s", body)
	}

	_, body = ConfirmedMessage(b)
	if !strings.Contains(body, "P1") || !strings.Contains(body, "2024-06-01") {
		t.Fatalf("confirmation missing payment reference or date:\n%s", body)
	}
}
