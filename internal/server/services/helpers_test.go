package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type fixture struct {
	store  repomanager.RepositoryManager
	codec  *auth.Codec
	tokens *RefreshTokenManager
	svc    *UserService
	clock  *clock
}

func newFixture(t *testing.T, store repomanager.RepositoryManager) *fixture {
	t.Helper()
	if store == nil {
		store = memory.NewManager()
	}
	codec, err := auth.NewCodec([]byte("test-secret"), auth.AccessTokenTTL)
	require.NoError(t, err)

	c := &clock{t: time.Now()}
	tokens := NewRefreshTokenManager(store, codec, RefreshTokenTTL, WithRefreshClock(c.Now))
	svc := NewUserService(store, codec, tokens, logging.Nop(), WithPasswordCost(bcrypt.MinCost))

	return &fixture{store: store, codec: codec, tokens: tokens, svc: svc, clock: c}
}

// faultyStore wraps a real store and injects repository errors, including
// inside transactions.
type faultyStore struct {
	repomanager.RepositoryManager

	createUserErr  error
	getUserErr     error
	createTokenErr error
	findTokenErr   error
	deleteTokenErr error
}

func (f *faultyStore) Users() users.Repository {
	return &faultyUsers{Repository: f.RepositoryManager.Users(), f: f}
}

func (f *faultyStore) RefreshTokens() refreshtokens.Repository {
	return &faultyTokens{Repository: f.RepositoryManager.RefreshTokens(), f: f}
}

func (f *faultyStore) InTx(ctx context.Context, fn func(ctx context.Context, m repomanager.RepositoryManager) error) error {
	return f.RepositoryManager.InTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		inner := *f
		inner.RepositoryManager = tx
		return fn(ctx, &inner)
	})
}

type faultyUsers struct {
	users.Repository
	f *faultyStore
}

func (r *faultyUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.f.createUserErr != nil {
		return nil, r.f.createUserErr
	}
	return r.Repository.Create(ctx, u)
}

func (r *faultyUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.f.getUserErr != nil {
		return nil, r.f.getUserErr
	}
	return r.Repository.GetUserByEmail(ctx, email)
}

func (r *faultyUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if r.f.getUserErr != nil {
		return nil, r.f.getUserErr
	}
	return r.Repository.GetUserByID(ctx, id)
}

type faultyTokens struct {
	refreshtokens.Repository
	f *faultyStore
}

func (r *faultyTokens) Create(ctx context.Context, userID, token string, expiresAt time.Time) (*models.RefreshToken, error) {
	if r.f.createTokenErr != nil {
		return nil, r.f.createTokenErr
	}
	return r.Repository.Create(ctx, userID, token, expiresAt)
}

func (r *faultyTokens) FindActive(ctx context.Context, token, userID string, now time.Time) (*models.RefreshToken, error) {
	if r.f.findTokenErr != nil {
		return nil, r.f.findTokenErr
	}
	return r.Repository.FindActive(ctx, token, userID, now)
}

func (r *faultyTokens) Delete(ctx context.Context, id string) error {
	if r.f.deleteTokenErr != nil {
		return r.f.deleteTokenErr
	}
	return r.Repository.Delete(ctx, id)
}
