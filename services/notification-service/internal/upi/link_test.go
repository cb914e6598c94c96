package upi

import (
	"net/url"
	"strings"
	"testing"
)

func TestLink(t *testing.T) {
	cfg := Config{VPA: "practice@upi", PayeeName: "Mind Harbour", Amount: "1500"}
	link := Link(cfg, "b-123")

	if !strings.HasPrefix(link, "upi://pay?") {
		t.Fatalf("unexpected scheme: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	q := u.Query()
	if got := q.Get("pa"); got != "practice@upi" {
		t.Fatalf("pa = %q", got)
	}
	if got := q.Get("pn"); got != "Mind Harbour" {
		t.Fatalf("pn = %q", got)
	}
	if got := q.Get("am"); got != "1500" {
		t.Fatalf("am = %q", got)
	}
	if got := q.Get("cu"); got != "INR" {
		t.Fatalf("cu = %q", got)
	}
	if got := q.Get("tn"); got != "booking b-123" {
		t.Fatalf("tn = %q", got)
	}
}

func TestLinkOmitsOptionalFields(t *testing.T) {
	link := Link(Config{VPA: "practice@upi"}, "b-1")
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	q := u.Query()
	if q.Has("pn") || q.Has("am") || q.Has("cu") {
		t.Fatalf("optional fields present: %s", link)
	}
}

func TestEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatal("empty config reported enabled")
	}
	if !(Config{VPA: "x@upi"}).Enabled() {
		t.Fatal("configured VPA reported disabled")
	}
}
