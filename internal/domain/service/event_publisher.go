package service

import (
	"context"
)

// OrderCreatedEvent is published after a checkout commits, so downstream
// consumers (fulfillment, analytics) can react asynchronously. Amounts are
// serialized as strings to keep them decimal-exact on the wire.
type OrderCreatedEvent struct {
	RequestID     string `json:"request_id,omitempty"` // For distributed tracing
	OrderNumber   string `json:"order_number"`
	UserID        string `json:"user_id,omitempty"` // Empty for guest orders
	CustomerEmail string `json:"customer_email"`
	ItemCount     int    `json:"item_count"`
	TotalAmount   string `json:"total_amount"`
	IsGuestOrder  bool   `json:"is_guest_order"`
	CreatedAt     string `json:"created_at"` // RFC 3339
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderCreated publishes an order-created event for async processing
	PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
