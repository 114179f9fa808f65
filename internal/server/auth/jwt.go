// Package auth issues and verifies access tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL is the default access-token lifetime.
const AccessTokenTTL = 15 * time.Minute

// ErrMissingSecret is returned when a Codec is built without a signing key.
var ErrMissingSecret = errors.New("jwt secret key is not configured")

// Claims is the access-token payload: the registered claims plus the
// authenticated identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Codec signs and verifies HS256 access tokens with a fixed secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a Codec signing with secret. A non-positive ttl falls back
// to AccessTokenTTL.
func NewCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// TTL reports the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue returns a signed access token for the user. Claims carry whole
// seconds, so the issue time is truncated first and exp is always iat+TTL;
// a token issued mid-second lives up to a second less than TTL.
func (c *Codec) Issue(userID, email string) (string, error) {
	now := c.now().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return s, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; everything else that fails
// yields an error wrapping common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
