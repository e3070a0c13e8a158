package mailer

import (
	"fmt"

	"github.com/sangkips/template-dispatch-service/internal/config"
	"github.com/sangkips/template-dispatch-service/internal/domains/messages"
	"github.com/sangkips/template-dispatch-service/internal/queue"
)

// FromConfig builds the transport named by cfg.Transport. The returned close
// function releases any connection the transport holds.
func FromConfig(cfg *config.Config) (messages.MailTransport, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Transport {
	case config.TransportLog:
		return NewLogTransport(), noop, nil
	case config.TransportResend:
		return NewResendTransport(ResendFromConfig(cfg)), noop, nil
	case config.TransportRabbitMQ:
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, err
		}
		return rabbitMQ, rabbitMQ.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

// ResendFromConfig extracts the Resend settings
func ResendFromConfig(cfg *config.Config) ResendConfig {
	return ResendConfig{
		APIKey:      cfg.ResendAPIKey,
		SenderEmail: cfg.ResendFrom,
		SenderName:  cfg.ResendName,
		Subject:     cfg.MailSubject,
	}
}
