// Package sms delivers one-time codes to phones. The OTP issuer only depends
// on the Sender contract, so the real provider and the debug console sender
// are interchangeable.
package sms

import "context"

type Sender interface {
	SendText(ctx context.Context, phone, body string) error
}
