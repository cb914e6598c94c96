package storage

import (
	"context"
	"encoding/json"

	"github.com/mindharbour/booking/libs/db"
)

// Notification is one delivery attempt, recorded whether or not it succeeded.
type Notification struct {
	BookingID string
	Channel   string
	Recipient string
	Payload   map[string]any
	Status    string
}

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (booking_id, channel, recipient, payload, status)
		VALUES ($1, $2, $3, $4, $5)
	`, n.BookingID, n.Channel, n.Recipient, payload, n.Status)
	return err
}
