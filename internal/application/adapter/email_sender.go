package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing notification emails.
type EmailService interface {
	// QueueBudgetExceeded queues the alert sent when a category reaches its limit.
	QueueBudgetExceeded(ctx context.Context, input QueueBudgetExceededInput) error

	// QueueMonthlyDigest queues the summary of a closed month.
	QueueMonthlyDigest(ctx context.Context, input QueueMonthlyDigestInput) error
}

// QueueBudgetExceededInput represents the input for a budget alert.
type QueueBudgetExceededInput struct {
	UserID    uuid.UUID
	UserEmail string
	UserName  string
	Category  string
	Month     string
	Limit     decimal.Decimal
	Spent     decimal.Decimal
}

// QueueMonthlyDigestInput represents the input for a monthly digest.
type QueueMonthlyDigestInput struct {
	UserID    uuid.UUID
	UserEmail string
	UserName  string
	Month     string
	Income    decimal.Decimal
	Expense   decimal.Decimal
	Balance   decimal.Decimal
	TopSpend  []CategorySpend
}

// CategorySpend is one line of the digest breakdown.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}
