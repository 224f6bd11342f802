package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/payalife/lms-backend/internal/auth"
	"github.com/payalife/lms-backend/internal/metrics"
	repo "github.com/payalife/lms-backend/internal/repository"
	"github.com/payalife/lms-backend/internal/sms"
)

const (
	otpTTL         = 2 * time.Minute
	otpCooldown    = time.Minute
	otpHourlyQuota = 5
	// otpMatchWindow bounds how many recent codes VerifyCode compares
	// against. Codes are bcrypt hashes, so each comparison costs real CPU.
	otpMatchWindow = 5
)

// OTPService issues and verifies one-time login codes.
type OTPService struct {
	codes  repo.OTPCodes
	sender sms.Sender
	now    func() time.Time
	log    *slog.Logger
}

func NewOTPService(codes repo.OTPCodes, sender sms.Sender, log *slog.Logger) *OTPService {
	return &OTPService{codes: codes, sender: sender, now: time.Now, log: log}
}

// RequestCode generates a 6-digit code for the phone and sends it via SMS.
// Enforces a per-phone cooldown and an hourly quota before touching the
// provider, so a rate-limited caller never burns SMS credit.
func (s *OTPService) RequestCode(ctx context.Context, phone string) error {
	now := s.now()

	last, ok, err := s.codes.LastCreatedAt(ctx, phone)
	if err != nil {
		return fmt.Errorf("check cooldown: %w", err)
	}
	if ok && now.Sub(last) < otpCooldown {
		return ErrRateLimited
	}

	sent, err := s.codes.CountSince(ctx, phone, now.Add(-time.Hour))
	if err != nil {
		return fmt.Errorf("check quota: %w", err)
	}
	if sent >= otpHourlyQuota {
		return ErrRateLimited
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := s.sender.SendText(ctx, phone, fmt.Sprintf("Your Paya Life login code: %s", code)); err != nil {
		s.log.Error("otp dispatch failed", "phone", phone, "error", err)
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	hash, err := auth.HashCode(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	if _, err := s.codes.Create(ctx, phone, hash, now.Add(otpTTL)); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	metrics.OTPSentTotal.Inc()
	s.log.Info("otp sent", "phone", phone)
	return nil
}

// VerifyCode checks the submitted code against the phone's recent unused
// codes, newest first, and burns the matched one. A code verifies at most
// once; resubmitting it fails even inside its expiry window.
func (s *OTPService) VerifyCode(ctx context.Context, phone, code string) error {
	rows, err := s.codes.Current(ctx, phone, s.now(), otpMatchWindow)
	if err != nil {
		return fmt.Errorf("load codes: %w", err)
	}
	for _, row := range rows {
		if !auth.CompareCode(code, row.CodeHash) {
			continue
		}
		if err := s.codes.MarkUsed(ctx, row.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				// Lost a race with a concurrent verify of the same code.
				break
			}
			return fmt.Errorf("mark used: %w", err)
		}
		return nil
	}
	metrics.OTPVerifyFailuresTotal.Inc()
	return ErrCodeInvalid
}
