package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Event types emitted by the booking service. The notification service
// consumes both; the core never waits on either.
const (
	EventBookingCreated   = "booking.created.v1"
	EventPaymentConfirmed = "booking.payment.confirmed.v1"
)
