package sheets

import (
	"testing"
	"time"
)

func TestTabName(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC), "June-2024"},
		{time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC), "January-2025"},
	}
	for _, c := range cases {
		if got := TabName(c.t); got != c.want {
			t.Fatalf("TabName(%s) = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestRowValuesMatchHeader(t *testing.T) {
	row := Row{
		Name:     "Asha",
		Email:    "asha@example.com",
		Country:  "IN",
		Date:     "2024-06-01",
		Time:     "10:00 AM",
		BookedAt: time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC),
	}
	values := row.values()
	if len(values) != len(headerRow()) {
		t.Fatalf("row has %d columns, header has %d", len(values), len(headerRow()))
	}
	if values[0] != "Asha" || values[5] != "2024-06-01" || values[6] != "10:00 AM" {
		t.Fatalf("unexpected row values: %v", values)
	}
	if values[8] != "2024-06-01T09:30:00Z" {
		t.Fatalf("unexpected booked-at column: %v", values[8])
	}
}
