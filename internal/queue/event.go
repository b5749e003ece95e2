// Package queue defines message payloads exchanged over the message broker
// along with the publisher and the background audit consumer.
package queue

// TicketEvent is published after a ticket mutation commits. It carries
// enough information for downstream consumers to log, notify or feed
// analytics without querying the primary database.
type TicketEvent struct {
	Action     string  `json:"action"` // "created", "updated" or "deleted"
	TicketID   int64   `json:"ticket_id"`
	CustomerID int64   `json:"customer_id"`
	MovieID    int64   `json:"movie_id"`
	Type       string  `json:"type"`
	FinalPrice float64 `json:"final_price"`
	OccurredAt string  `json:"occurred_at"` // RFC 3339, UTC
}

// Actions recorded in TicketEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
