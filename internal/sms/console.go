package sms

import (
	"context"
	"log/slog"
)

// ConsoleSender logs the message instead of sending it. Used when
// OTP_DEBUG_MODE is set, so development does not burn SMS credit.
type ConsoleSender struct {
	log *slog.Logger
}

func NewConsoleSender(log *slog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) SendText(_ context.Context, phone, body string) error {
	s.log.Info("debug mode: sms not sent", "phone", phone, "body", body)
	return nil
}
