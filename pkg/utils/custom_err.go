package utils

import "errors"

var (
	ErrDatabaseError = errors.New("database error")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")

	// accounts
	ErrDuplicateIdentity  = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")

	// billing
	ErrCheckoutUnavailable = errors.New("checkout is unavailable")
	ErrPortalUnavailable   = errors.New("subscription portal is unavailable")
	ErrPaymentNotConfirmed = errors.New("payment was not confirmed")
	ErrNoBillingIdentity   = errors.New("no billing account on file")
	ErrSubscriptionStatus  = errors.New("subscription status unavailable")

	// journal
	ErrSubscriptionRequired = errors.New("an active subscription is required")
	ErrInvalidDay           = errors.New("invalid day number")
	ErrInvalidPage          = errors.New("invalid page number")

	// community
	ErrAlreadySubscribed = errors.New("email is already subscribed")
	ErrNotSubscribed     = errors.New("email is not subscribed")

	ErrNotificationFailed = errors.New("notification failed")
)
