// Package users declares the credential-store contract for user records and
// its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository persists user identity records.
type Repository interface {
	// Create stores a new user and fills in its ID and CreatedAt.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns common.ErrorNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns common.ErrorNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
