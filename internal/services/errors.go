package services

import "errors"

// Sentinel errors the handler layer maps to HTTP statuses.
var (
	// ErrRateLimited: OTP cooldown or hourly quota hit.
	ErrRateLimited = errors.New("too many code requests")
	// ErrCodeInvalid: no unused, unexpired matching code for the phone.
	ErrCodeInvalid = errors.New("invalid or expired code")
	// ErrDispatch: the SMS provider call itself failed. Distinct from rate
	// limiting so the client can tell "slow down" from "try again".
	ErrDispatch = errors.New("code dispatch failed")

	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyEnrolled  = errors.New("already enrolled")
	ErrNotPublished     = errors.New("course not published")
	ErrSessionExpired   = errors.New("session expired")
	ErrDuplicateRequest = errors.New("request already pending")
	ErrCategoryNotFound = errors.New("category not found")
)
