// Package mail implements outbound transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

// sendFunc abstracts smtp.SendMail so tests can capture outbound messages.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtpMailer implements the Mailer interface using plain SMTP with AUTH.
type smtpMailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	send   sendFunc
	logger *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return nil, errors.New("smtp host must be provided")
	}
	if cfg.SMTP.From == "" {
		return nil, errors.New("smtp sender address must be provided")
	}

	var auth smtp.Auth
	if cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	}

	return &smtpMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port),
		auth:   auth,
		from:   cfg.SMTP.From,
		send:   smtp.SendMail,
		logger: logger,
	}, nil
}

// SendOrderConfirmation sends the order confirmation email for a completed checkout.
func (m *smtpMailer) SendOrderConfirmation(ctx context.Context, summary *service.OrderSummary) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	subject := fmt.Sprintf("Order confirmation %s", summary.OrderNumber)
	body := buildOrderConfirmationBody(summary)

	if err := m.send(m.addr, m.auth, m.from, []string{summary.CustomerEmail}, buildMessage(m.from, summary.CustomerEmail, subject, body)); err != nil {
		return errors.Wrap(err, "failed to send order confirmation email")
	}

	m.logger.Info("Order confirmation email sent",
		slog.String("order_number", summary.OrderNumber),
		slog.String("email", summary.CustomerEmail),
	)

	return nil
}

// SendPasswordReset sends a password reset email carrying the reset link.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	subject := "Reset your password"
	body := fmt.Sprintf(
		"We received a request to reset the password for this address.\r\n\r\n"+
			"Open the link below to choose a new password. The link expires shortly and can only be used once.\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not request a reset, you can ignore this email.\r\n",
		resetURL,
	)

	if err := m.send(m.addr, m.auth, m.from, []string{email}, buildMessage(m.from, email, subject, body)); err != nil {
		return errors.Wrap(err, "failed to send password reset email")
	}

	m.logger.Info("Password reset email sent", slog.String("email", email))

	return nil
}

// buildOrderConfirmationBody renders the plain-text order summary.
func buildOrderConfirmationBody(summary *service.OrderSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", summary.CustomerName)
	fmt.Fprintf(&b, "Thanks for your order %s. Here is what you ordered:\r\n\r\n", summary.OrderNumber)

	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "  %d x %s: %s\r\n", line.Quantity, line.ProductName, line.Subtotal)
	}

	fmt.Fprintf(&b, "\r\nTotal: %s\r\n\r\n", summary.TotalAmount)
	b.WriteString("We will let you know as soon as your order ships.\r\n")

	return b.String()
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}
