package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

const (
	// RefreshTokenTTL is the default refresh-token lifetime.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// refreshSecretSize is the number of random bytes in a refresh token.
	refreshSecretSize = 32
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenManager creates refresh tokens and rotates them.
//
// A refresh token handed to a client has the form "<userID>.<secret>", where
// secret is 64 hex characters. Only the SHA-256 digest of the secret is
// stored, and every lookup is scoped by the owning user id.
type RefreshTokenManager struct {
	store repomanager.RepositoryManager
	codec *auth.Codec
	ttl   time.Duration
	now   func() time.Time
}

// RefreshTokenOption customises a RefreshTokenManager.
type RefreshTokenOption func(*RefreshTokenManager)

// WithRefreshClock replaces the clock used for expiry decisions.
func WithRefreshClock(now func() time.Time) RefreshTokenOption {
	return func(m *RefreshTokenManager) { m.now = now }
}

// NewRefreshTokenManager returns a manager issuing tokens valid for ttl.
// A non-positive ttl falls back to RefreshTokenTTL.
func NewRefreshTokenManager(store repomanager.RepositoryManager, codec *auth.Codec, ttl time.Duration, opts ...RefreshTokenOption) *RefreshTokenManager {
	if ttl <= 0 {
		ttl = RefreshTokenTTL
	}
	m := &RefreshTokenManager{store: store, codec: codec, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create issues a new refresh token for userID and returns the value to hand
// to the client together with the stored record.
func (m *RefreshTokenManager) Create(ctx context.Context, userID string) (string, *models.RefreshToken, error) {
	return m.create(ctx, m.store.RefreshTokens(), userID)
}

func (m *RefreshTokenManager) create(ctx context.Context, repo refreshtokens.Repository, userID string) (string, *models.RefreshToken, error) {
	secret, err := common.MakeRandHexString(refreshSecretSize)
	if err != nil {
		return "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	rec, err := repo.Create(ctx, userID, digest(secret), m.now().Add(m.ttl))
	if err != nil {
		return "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return formatRefreshToken(userID, secret), rec, nil
}

// Rotate consumes the refresh token identified by secret and userID and
// returns a new pair. Unknown, expired, foreign and already consumed tokens
// all yield common.ErrorUnauthorized.
//
// The new token is written before the old one is deleted, both inside one
// store transaction. The delete is conditional: if a concurrent rotation
// already consumed the old record, nothing is deleted and the whole
// transaction is rolled back.
func (m *RefreshTokenManager) Rotate(ctx context.Context, secret, userID string) (*TokenPair, error) {
	var pair *TokenPair

	err := m.store.InTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		repo := tx.RefreshTokens()

		old, err := repo.FindActive(ctx, digest(secret), userID, m.now())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("find refresh token: %w", err)
		}

		user, err := tx.Users().GetUserByID(ctx, old.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("find token owner: %w", err)
		}

		access, err := m.codec.Issue(user.ID, user.Email)
		if err != nil {
			return err
		}

		refresh, _, err := m.create(ctx, repo, user.ID)
		if err != nil {
			return err
		}

		if err := repo.Delete(ctx, old.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("consume refresh token: %w", err)
		}

		pair = &TokenPair{AccessToken: access, RefreshToken: refresh}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Sweep deletes every refresh token that has expired by now.
func (m *RefreshTokenManager) Sweep(ctx context.Context) (int64, error) {
	return m.store.RefreshTokens().DeleteExpired(ctx, m.now())
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func formatRefreshToken(userID, secret string) string {
	return userID + "." + secret
}

// parseRefreshToken splits a client-supplied refresh token into its user id
// and secret parts.
func parseRefreshToken(value string) (userID, secret string, ok bool) {
	userID, secret, ok = strings.Cut(value, ".")
	if !ok || userID == "" || len(secret) != 2*refreshSecretSize {
		return "", "", false
	}
	if _, err := hex.DecodeString(secret); err != nil {
		return "", "", false
	}
	return userID, secret, true
}
