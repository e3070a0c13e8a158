package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// ResendConfig holds Resend provider settings
type ResendConfig struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Subject     string
}

// emailClient is the part of the Resend client the transport uses
type emailClient interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendTransport delivers rendered messages as plain-text email through Resend.
type ResendTransport struct {
	emails emailClient
	config ResendConfig
}

func NewResendTransport(cfg ResendConfig) *ResendTransport {
	return &ResendTransport{
		emails: resend.NewClient(cfg.APIKey).Emails,
		config: cfg,
	}
}

func (s *ResendTransport) Send(ctx context.Context, addresses []string, content string) error {
	if len(addresses) == 0 {
		return ErrNoRecipient
	}

	from := s.config.SenderEmail
	if s.config.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      addresses,
		Subject: s.config.Subject,
		Text:    content,
	}

	if _, err := s.emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}
