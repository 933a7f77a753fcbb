// Package core defines the fundamental types and errors for ReadyDay.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Whoop data errors
	ErrNoRecoveryData     = errors.New("no recovery data available yet")
	ErrNoSleepData        = errors.New("no sleep data available yet")
	ErrWhoopUnavailable   = errors.New("whoop data is currently unavailable")
	ErrTokenExpired       = errors.New("whoop session has expired")
	ErrTokenRefreshFailed = errors.New("could not refresh whoop connection")

	// Calendar errors
	ErrCalendarAccessDenied     = errors.New("calendar access was denied")
	ErrCalendarAccessRestricted = errors.New("calendar access is restricted")
	ErrCalendarNotConnected     = errors.New("calendar is not connected")

	// Network errors
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrRateLimited        = errors.New("rate limited by upstream API")
	ErrServerError        = errors.New("upstream server error")

	// Storage errors
	ErrRecordNotFound  = errors.New("record not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoCredentials   = errors.New("no stored credentials")
	ErrMigrationFailed = errors.New("migration failed")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
