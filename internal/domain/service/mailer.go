package service

import (
	"context"
)

// OrderSummaryLine is one snapshotted line of an order as it appears in
// the confirmation email.
type OrderSummaryLine struct {
	ProductName string
	Quantity    int
	Subtotal    string // Decimal-exact amount, already formatted
}

// OrderSummary carries everything the confirmation email needs, so the
// mailer never reaches back into the order store.
type OrderSummary struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Lines         []OrderSummaryLine
	TotalAmount   string // Decimal-exact amount, already formatted
}

// Mailer defines the interface for outbound transactional email.
type Mailer interface {
	// SendOrderConfirmation sends the order confirmation email for a completed checkout.
	SendOrderConfirmation(ctx context.Context, summary *OrderSummary) error

	// SendPasswordReset sends a password reset email carrying the reset link.
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}
