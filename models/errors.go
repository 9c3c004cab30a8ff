// models/errors.go
package models

import "errors"

// Domain errors shared by services, controllers and middleware. Controllers map
// these onto HTTP responses; none of them carries user-identifying detail.
var (
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
	ErrRateLimited        = errors.New("rate limited")
	ErrPersistence        = errors.New("persistence failure")
	ErrMessagingDelivery  = errors.New("messaging delivery failure")
	ErrNoActiveChallenge  = errors.New("no active challenge")
	ErrExpired            = errors.New("challenge expired")
	ErrAttemptsExceeded   = errors.New("attempts exceeded")
	ErrCodeMismatch       = errors.New("code mismatch")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPhotoNotFound      = errors.New("photo not found")
)
