package seswire

import (
	"context"

	"github.com/rs/zerolog"
)

// LoggingMiddleware logs every send before the first attempt and once with
// its terminal outcome. Purely observational.
type LoggingMiddleware struct {
	log zerolog.Logger
}

// NewLoggingMiddleware creates a middleware logging through the given logger.
func NewLoggingMiddleware(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		log: logger.With().Str("component", "seswire").Logger(),
	}
}

// BeforeSend implements Middleware.
func (m *LoggingMiddleware) BeforeSend(ctx context.Context, msg *Message, provider string) {
	m.log.Info().
		Str("provider", provider).
		Str("from", msg.From.Email).
		Str("subject", msg.Subject).
		Int("recipients", msg.TotalRecipients()).
		Msg("sending message")
}

// AfterSend implements Middleware.
func (m *LoggingMiddleware) AfterSend(ctx context.Context, outcome *Outcome) {
	if outcome.Err != nil {
		m.log.Warn().
			Str("provider", outcome.Provider).
			Int("attempts", outcome.Attempts).
			Str("kind", KindOf(outcome.Err).String()).
			Err(outcome.Err).
			Msg("send failed")
		return
	}

	m.log.Info().
		Str("provider", outcome.Provider).
		Int("attempts", outcome.Attempts).
		Str("message_id", outcome.Result.MessageID).
		Str("request_id", outcome.Result.RequestID).
		Msg("message accepted")
}
