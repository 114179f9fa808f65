// Package memory is an in-process credential store. It backs the server when
// no database DSN is configured and serves as the store in service tests.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

type state struct {
	users   map[string]models.User
	byEmail map[string]string
	tokens  map[string]models.RefreshToken
	byToken map[string]string
}

func newState() *state {
	return &state{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]models.RefreshToken),
		byToken: make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := &state{
		users:   make(map[string]models.User, len(s.users)),
		byEmail: make(map[string]string, len(s.byEmail)),
		tokens:  make(map[string]models.RefreshToken, len(s.tokens)),
		byToken: make(map[string]string, len(s.byToken)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.byEmail {
		c.byEmail[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.byToken {
		c.byToken[k] = v
	}
	return c
}

// Manager implements repomanager.RepositoryManager in memory.
//
// Transactions are serialised: InTx holds the store lock for the whole of fn,
// works on a private copy of the state and publishes it only when fn
// succeeds.
type Manager struct {
	mu *sync.Mutex
	st *state
	tx bool
}

var _ repomanager.RepositoryManager = (*Manager)(nil)

// NewManager returns an empty store.
func NewManager() *Manager {
	return &Manager{mu: &sync.Mutex{}, st: newState()}
}

func (m *Manager) Users() users.Repository { return &userRepo{m: m} }

func (m *Manager) RefreshTokens() refreshtokens.Repository { return &tokenRepo{m: m} }

func (m *Manager) InTx(ctx context.Context, fn func(ctx context.Context, m repomanager.RepositoryManager) error) error {
	if m.tx {
		return fn(ctx, m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := &Manager{st: m.st.clone(), tx: true}
	if err := fn(ctx, work); err != nil {
		return err
	}
	m.st = work.st
	return nil
}

// lock guards direct, non-transactional access. A transactional view already
// runs under the parent's lock.
func (m *Manager) lock() func() {
	if m.tx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}
