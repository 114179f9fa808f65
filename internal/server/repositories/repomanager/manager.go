// Package repomanager vends the credential-store repositories and the
// transaction boundary that ties them together.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// RepositoryManager is the credential store as the services see it.
type RepositoryManager interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository

	// InTx runs fn with a manager whose repositories share one transaction.
	// Either every write made through m is kept (fn returned nil) or none is.
	// Calling InTx on a manager that is already transactional just runs fn.
	InTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
}
