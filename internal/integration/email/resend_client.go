// Package email queues, renders and delivers notification emails.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/smartwallet/backend/internal/application/adapter"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// ResendClient implements adapter.EmailSender using Resend.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	})
	if err != nil {
		return nil, classifySendError(err)
	}
	return &adapter.SendEmailResult{ProviderID: resp.Id}, nil
}

// permanentMarkers identify provider answers that will not change on retry:
// bad credentials, forbidden sender and validation failures.
var permanentMarkers = []string{
	"401",
	"403",
	"422",
	"unauthorized",
	"forbidden",
	"validation",
	"invalid",
	"bad request",
}

func classifySendError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				fmt.Errorf("%w: %w", domainerror.ErrPermanentEmailFailure, err),
			)
		}
	}
	return domainerror.NewEmailError(domainerror.ErrCodeEmailSendFailed, "temporary email failure", err)
}

// LogSender writes emails to the log instead of sending them. It is used
// when no Resend API key is configured.
type LogSender struct{}

// Send implements adapter.EmailSender.
func (LogSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	id := "log-" + uuid.NewString()
	slog.Info("Email not sent, no provider configured",
		"to", input.To,
		"subject", input.Subject,
		"provider_id", id,
	)
	return &adapter.SendEmailResult{ProviderID: id}, nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = LogSender{}
)
