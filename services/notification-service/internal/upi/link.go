package upi

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeqown/go-qrcode"
)

// Config identifies the payee for generated payment links.
type Config struct {
	VPA       string // virtual payment address, e.g. practice@upi
	PayeeName string
	Amount    string // fixed session price, decimal string; empty leaves it to the payer
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.VPA) != ""
}

// Link builds a upi://pay deep link for a booking. The note carries the
// booking id so incoming payments can be matched by hand.
func Link(cfg Config, bookingID string) string {
	v := url.Values{}
	v.Set("pa", cfg.VPA)
	if cfg.PayeeName != "" {
		v.Set("pn", cfg.PayeeName)
	}
	if cfg.Amount != "" {
		v.Set("am", cfg.Amount)
		v.Set("cu", "INR")
	}
	v.Set("tn", "booking "+bookingID)
	return "upi://pay?" + v.Encode()
}

// WriteQR renders the link as a QR image under dir, named after the booking.
// The returned path is where a frontend or mail template can pick it up.
func WriteQR(dir, bookingID, link string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	qrc, err := qrcode.New(link)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.jpeg", bookingID))
	if err := qrc.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
