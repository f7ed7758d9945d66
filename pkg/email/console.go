package email

import (
	"context"

	"github.com/Developershubh00/Binder-backend/pkg/logger"
)

// ConsoleSender logs messages instead of delivering them. Used in development.
type ConsoleSender struct {
	log *logger.Logger
}

func NewConsoleSender(log *logger.Logger) *ConsoleSender {
	return &ConsoleSender{log: log.Named("email")}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Msg("email not delivered (console provider)")
	return nil
}
