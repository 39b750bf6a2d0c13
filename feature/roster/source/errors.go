package source

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceAuth indicates the API rejected the credentials or returned no token.
	ErrSourceAuth = errors.New("source authentication failed")

	// ErrSourceFetch indicates the employee list could not be downloaded or decoded.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrMalformedRecord indicates an employee without identity fields.
	ErrMalformedRecord = errors.New("malformed record")
)

// AuthError describes a failed authentication round trip.
type AuthError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source authentication failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("source authentication failed: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthError) Is(target error) bool {
	return target == ErrSourceAuth
}

// FetchError describes a failed employee download.
type FetchError struct {
	Company    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source fetch for %s failed (status %d)", e.Company, e.StatusCode)
	}
	return fmt.Sprintf("source fetch for %s failed: %v", e.Company, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	return target == ErrSourceFetch
}

// MalformedRecordError rejects one employee of a payload.
type MalformedRecordError struct {
	// Index is the position of the employee in the payload.
	Index  int
	Field  string
	Reason string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %d: %s %s", e.Index, e.Field, e.Reason)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
