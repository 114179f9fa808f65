package models

import "time"

// RefreshToken is a server-side refresh-token record.
//
// Token holds the SHA-256 hex digest of the secret handed to the client; the
// plaintext is never stored. A record is valid while it exists, belongs to
// the presenting user, and ExpiresAt is in the future.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the record is still usable at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
