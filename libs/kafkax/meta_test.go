package kafkax

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestSplitBrokers(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{" , ", 0},
		{"kafka:9092", 1},
		{"a:9092, b:9092,", 2},
	}
	for _, c := range cases {
		if got := SplitBrokers(c.raw); len(got) != c.want {
			t.Fatalf("SplitBrokers(%q) = %v, want %d entries", c.raw, got, c.want)
		}
	}
}

func TestExtractEventMeta(t *testing.T) {
	msg := kafka.Message{
		Topic: "booking.created.v1",
		Key:   []byte("key-1"),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte("evt-1")},
			{Key: "event_type", Value: []byte("booking.created.v1")},
		},
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "evt-1" || meta.EventType != "booking.created.v1" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	// Without headers, fall back to key/topic.
	bare := kafka.Message{Topic: "booking.created.v1", Key: []byte("key-2")}
	meta = ExtractEventMeta(bare)
	if meta.EventID != "key-2" || meta.EventType != "booking.created.v1" {
		t.Fatalf("unexpected fallback meta: %+v", meta)
	}
}

func TestInjectTraceHeadersPreservesExisting(t *testing.T) {
	headers := []kafka.Header{{Key: "event_id", Value: []byte("evt-1")}}
	out := InjectTraceHeaders(t.Context(), headers)
	if HeaderValue(out, "event_id") != "evt-1" {
		t.Fatal("existing header lost during injection")
	}
}
