package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, fx *fixture) *models.User {
	t.Helper()
	u, err := fx.store.Users().Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	return u
}

func TestCreate_StoresDigest(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	u := seedUser(t, fx)

	value, rec, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)

	userID, secret, ok := parseRefreshToken(value)
	require.True(t, ok)
	assert.Equal(t, u.ID, userID)
	assert.Len(t, secret, 64)
	assert.Equal(t, digest(secret), rec.Token)
	assert.NotContains(t, rec.Token, secret)
	assert.Equal(t, fx.clock.t.Add(RefreshTokenTTL), rec.ExpiresAt)
}

func TestCreate_ValuesAreUnique(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	u := seedUser(t, fx)

	a, _, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)
	b, _, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCreate_StoreError(t *testing.T) {
	fx := newFixture(t, &faultyStore{RepositoryManager: memory.NewManager(), createTokenErr: errBoom{}})

	_, _, err := fx.tokens.Create(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(errBoom)))
}

func TestRotate_UnknownToken(t *testing.T) {
	fx := newFixture(t, nil)
	u := seedUser(t, fx)

	_, err := fx.tokens.Rotate(context.Background(), strings.Repeat("a", 64), u.ID)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRotate_DeleteLostRace(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewManager()
	store := &faultyStore{RepositoryManager: inner}
	fx := newFixture(t, store)
	u := seedUser(t, fx)

	value, _, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)
	_, secret, _ := parseRefreshToken(value)

	store.deleteTokenErr = common.ErrorNotFound
	_, err = fx.tokens.Rotate(ctx, secret, u.ID)
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	n, err := inner.RefreshTokens().DeleteExpired(ctx, fx.clock.t.Add(2*RefreshTokenTTL))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "the token created before the failed delete must be rolled back")
}

func TestRotate_MissingOwner(t *testing.T) {
	ctx := context.Background()
	store := &faultyStore{RepositoryManager: memory.NewManager()}
	fx := newFixture(t, store)
	u := seedUser(t, fx)

	value, _, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)
	_, secret, _ := parseRefreshToken(value)

	store.getUserErr = common.ErrorNotFound
	_, err = fx.tokens.Rotate(ctx, secret, u.ID)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	u := seedUser(t, fx)

	start := fx.clock.t
	_, _, err := fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)
	fx.clock.t = start.Add(time.Hour)
	_, _, err = fx.tokens.Create(ctx, u.ID)
	require.NoError(t, err)

	fx.clock.t = start.Add(RefreshTokenTTL)
	n, err := fx.tokens.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestParseRefreshToken(t *testing.T) {
	secret := strings.Repeat("0f", 32)

	userID, got, ok := parseRefreshToken("u1." + secret)
	require.True(t, ok)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, secret, got)

	_, _, ok = parseRefreshToken("u1" + secret)
	assert.False(t, ok)
	_, _, ok = parseRefreshToken("u1." + secret + "00")
	assert.False(t, ok)
}
