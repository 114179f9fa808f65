// Package refreshtokens declares the credential-store contract for refresh
// tokens and its PostgreSQL implementation.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository persists refresh-token records. Tokens are addressed by their
// stored digest, never by the plaintext handed to clients.
type Repository interface {
	// Create stores a token for userID expiring at expiresAt and returns the
	// stored record.
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) (*models.RefreshToken, error)

	// FindActive returns the record matching both token and userID whose
	// expiry is after now. Anything else, including an expired match, yields
	// common.ErrorNotFound.
	FindActive(ctx context.Context, token string, userID string, now time.Time) (*models.RefreshToken, error)

	// Delete removes the record with the given id. It returns
	// common.ErrorNotFound when no row was removed, which is how concurrent
	// consumers of the same token learn that they lost.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every record that expired at or before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
