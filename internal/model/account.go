// Package model defines domain entities for the application.
package model

import "time"

// Account represents a registered user account keyed uniquely by email.
//
// PasswordHash and the audit fields are tagged json:"-" so they can
// never be serialized across the service boundary, even if a caller
// forgets to sanitize first.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	PasswordHash  string `json:"-"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	EmailVerified bool   `json:"emailVerified"`

	// PasswordChangedAt is set at creation and on any future password
	// change. It stays server-side.
	PasswordChangedAt time.Time `json:"-"`

	// Audit fields owned entirely by the store.
	CreatedAt     time.Time `json:"-"`
	LastUpdatedAt time.Time `json:"-"`
	Version       int       `json:"-"`
}

// Sanitized returns a copy of the account safe to hand to callers.
// The password hash is cleared; audit fields are already excluded from
// serialization by their tags.
func (a *Account) Sanitized() *Account {
	clean := *a
	clean.PasswordHash = ""
	return &clean
}
