// Package gateway talks to the external payment provider. One payment
// attempt is identified by the provider's opaque authority token.
package gateway

import "context"

type VerifyResult struct {
	RefID int64
	// AlreadyVerified is the provider's "this authority was verified
	// before" response. Non-fatal: the attempt did succeed, there is just
	// no fresh reference id.
	AlreadyVerified bool
}

type Client interface {
	// RequestPayment registers a payment attempt and returns the authority
	// token plus the URL the payer should be redirected to.
	RequestPayment(ctx context.Context, amount int64, description, callbackURL string) (authority, paymentURL string, err error)
	// VerifyPayment confirms with the provider that the payer actually
	// paid. Never retried: a second charge is worse than a failed verify.
	VerifyPayment(ctx context.Context, authority string, amount int64) (VerifyResult, error)
}
