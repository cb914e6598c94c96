package slots

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	timeLayout = "3:04 PM"
)

// DefaultLabels is the bookable time-of-day enumeration the practice offers.
func DefaultLabels() []string {
	return []string{"10:00 AM", "2:00 PM", "4:00 PM", "7:00 PM"}
}

// Set is the fixed enumeration of bookable slot labels for a calendar day.
// Labels are stored in canonical "3:04 PM" form in their configured order.
type Set struct {
	labels    []string
	canonical map[string]struct{}
}

func NewSet(labels []string) (*Set, error) {
	if len(labels) == 0 {
		labels = DefaultLabels()
	}
	s := &Set{canonical: make(map[string]struct{}, len(labels))}
	for _, raw := range labels {
		label, err := NormalizeTime(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid slot label %q: %w", raw, err)
		}
		if _, dup := s.canonical[label]; dup {
			continue
		}
		s.canonical[label] = struct{}{}
		s.labels = append(s.labels, label)
	}
	return s, nil
}

// ParseList splits a comma-separated label list from configuration.
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Labels returns the canonical labels in configured order.
func (s *Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Normalize maps a caller-supplied time label to its canonical form.
// The second return is false when the label is not in the enumeration.
func (s *Set) Normalize(raw string) (string, bool) {
	label, err := NormalizeTime(raw)
	if err != nil {
		return "", false
	}
	if _, ok := s.canonical[label]; !ok {
		return "", false
	}
	return label, true
}

// Available returns the labels not present in booked, preserving configured
// order. Booked entries are normalized before comparison so storage values
// and caller input compare equal.
func (s *Set) Available(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, raw := range booked {
		if label, err := NormalizeTime(raw); err == nil {
			taken[label] = struct{}{}
		}
	}
	out := make([]string, 0, len(s.labels))
	for _, label := range s.labels {
		if _, ok := taken[label]; !ok {
			out = append(out, label)
		}
	}
	return out
}

// NormalizeTime canonicalizes a slot label ("10:00 am", " 2:00 PM") to the
// "3:04 PM" form used for storage and comparison.
func NormalizeTime(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(raw), " "))
	t, err := time.Parse(timeLayout, cleaned)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}

// NormalizeDate canonicalizes a calendar-day string to YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
