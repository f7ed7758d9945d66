package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers email through Resend
type ResendSender struct {
	client *resend.Client
	config Config
}

// NewResendSender creates a new Resend sender
func NewResendSender(apiKey string, config Config) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, errors.New("from email is required")
	}

	return &ResendSender{
		client: resend.NewClient(apiKey),
		config: config,
	}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.config.From(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}
