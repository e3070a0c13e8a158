package mailer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoRecipient indicates a send with an empty address list
var ErrNoRecipient = errors.New("message must have at least one recipient")

// LogTransport records messages in the log instead of delivering them.
// Useful for local runs and as the worker fallback when no provider is set.
type LogTransport struct {
	logger zerolog.Logger
}

// NewLogTransport writes to the global logger
func NewLogTransport() *LogTransport {
	return &LogTransport{logger: log.Logger}
}

// NewLogTransportWithLogger writes to the given logger
func NewLogTransportWithLogger(logger zerolog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

// Send logs the message with a generated delivery id
func (s *LogTransport) Send(ctx context.Context, addresses []string, content string) error {
	if len(addresses) == 0 {
		return ErrNoRecipient
	}

	s.logger.Info().
		Str("delivery_id", "log-msg-"+uuid.New().String()).
		Strs("to", addresses).
		Int("length", len(content)).
		Str("content", content).
		Msg("message delivered to log")
	return nil
}
