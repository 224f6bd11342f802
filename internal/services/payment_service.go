package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payalife/lms-backend/internal/gateway"
	"github.com/payalife/lms-backend/internal/metrics"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// PaymentService drives the purchase flow: initiate against the gateway,
// then settle in the callback. Settlement is replay safe; a transaction
// leaves PENDING exactly once no matter how often the callback lands.
type PaymentService struct {
	txns        repo.Transactions
	gw          gateway.Client
	baseURL     string
	callbackURL string
	log         *slog.Logger
}

func NewPaymentService(txns repo.Transactions, gw gateway.Client, baseURL, callbackURL string, log *slog.Logger) *PaymentService {
	return &PaymentService{txns: txns, gw: gw, baseURL: baseURL, callbackURL: callbackURL, log: log}
}

// Initiate registers a payment with the gateway and records a PENDING
// transaction keyed by the returned authority. Returns the authority and the
// URL the client should redirect the buyer to.
func (s *PaymentService) Initiate(ctx context.Context, userID string, course models.Course) (string, string, error) {
	desc := fmt.Sprintf("Purchase of course: %s", course.Title)
	authority, payURL, err := s.gw.RequestPayment(ctx, course.Price, desc, s.callbackURL)
	if err != nil {
		return "", "", fmt.Errorf("gateway request: %w", err)
	}

	_, err = s.txns.Create(ctx, models.Transaction{
		UserID:    userID,
		CourseID:  &course.ID,
		Amount:    course.Price,
		Authority: authority,
		Status:    models.TxnPending,
	})
	if err != nil {
		return "", "", fmt.Errorf("record transaction: %w", err)
	}

	s.log.Info("payment initiated", "user_id", userID, "course_id", course.ID, "authority", authority, "amount", course.Price)
	return authority, payURL, nil
}

// HandleCallback settles the gateway's return visit and yields the frontend
// URL to redirect the buyer to. Every path resolves to a redirect; the
// browser never sees an error body from this flow.
func (s *PaymentService) HandleCallback(ctx context.Context, authority, status string) string {
	if status != "OK" {
		// The buyer backed out at the gateway. The row stays PENDING; the
		// sweeper expires it later.
		return s.failURL("canceled")
	}

	txn, err := s.txns.GetPendingByAuthority(ctx, authority)
	if errors.Is(err, repo.ErrNotFound) {
		// Unknown authority, or a replay of an already settled callback.
		return s.failURL("transaction_not_found")
	}
	if err != nil {
		s.log.Error("callback lookup failed", "authority", authority, "error", err)
		return s.failURL("server_error")
	}

	res, err := s.gw.VerifyPayment(ctx, authority, txn.Amount)
	if err != nil {
		var perr *gateway.ProviderError
		if !errors.As(err, &perr) {
			// Transport failure. The charge may have gone through, so the
			// row stays PENDING until a retry or the sweeper resolves it.
			s.log.Error("payment verification failed", "authority", authority, "error", err)
			return s.failURL("server_error")
		}
		s.log.Warn("payment verification rejected", "authority", authority, "code", perr.Code)
		if _, ferr := s.txns.MarkFailed(ctx, txn.ID); ferr != nil {
			s.log.Error("mark failed", "transaction_id", txn.ID, "error", ferr)
		}
		metrics.PaymentsTotal.WithLabelValues("failed").Inc()
		return s.failURL("verification_failed")
	}

	ok, err := s.txns.CompleteAndEnroll(ctx, txn.ID, res.RefID)
	if err != nil {
		s.log.Error("settle transaction", "transaction_id", txn.ID, "error", err)
		return s.failURL("server_error")
	}
	if !ok {
		// Raced with another delivery of the same callback.
		return s.failURL("transaction_not_found")
	}

	metrics.PaymentsTotal.WithLabelValues("completed").Inc()
	s.log.Info("payment completed", "transaction_id", txn.ID, "authority", authority, "ref_id", res.RefID, "already_verified", res.AlreadyVerified)
	return fmt.Sprintf("%s/payment/success?refId=%d", s.baseURL, res.RefID)
}

func (s *PaymentService) failURL(reason string) string {
	return fmt.Sprintf("%s/payment/failed?error=%s", s.baseURL, reason)
}
