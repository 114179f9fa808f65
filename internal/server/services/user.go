// Package services contains the server-side business logic: account
// creation, credential checks and token issuance.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// UserService provides the authentication operations exposed over HTTP:
// Signup, Login, Refresh and Authenticate.
type UserService struct {
	store        repomanager.RepositoryManager
	codec        *auth.Codec
	tokens       *RefreshTokenManager
	log          logging.Logger
	passwordCost int

	dummyOnce sync.Once
	dummyHash string
}

// UserServiceOption customises a UserService.
type UserServiceOption func(*UserService)

// WithPasswordCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithPasswordCost(cost int) UserServiceOption {
	return func(s *UserService) { s.passwordCost = cost }
}

// NewUserService wires the service to its store, codec and refresh-token
// manager.
func NewUserService(store repomanager.RepositoryManager, codec *auth.Codec, tokens *RefreshTokenManager, log logging.Logger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		store:        store,
		codec:        codec,
		tokens:       tokens,
		log:          log,
		passwordCost: auth.PasswordCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Signup creates an account and returns its first token pair. A taken email
// yields common.ErrorAlreadyExists and a password longer than
// auth.MaxPasswordBytes yields common.ErrorValidation; any other failure
// yields common.ErrorInternal.
func (s *UserService) Signup(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)

	if len(password) > auth.MaxPasswordBytes {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(password, s.passwordCost)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	err = s.store.InTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		user, err := tx.Users().Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.log.Error(ctx, "signup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Login checks the credentials and returns a fresh token pair. An unknown
// email and a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to that of a real comparison
			_ = auth.CheckPassword(s.dummy(), password)
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "password check failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	pair, err := s.issuePair(ctx, s.store, user)
	if err != nil {
		s.log.Error(ctx, "token issuance failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The access token is not
// consulted.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, secret, ok := parseRefreshToken(refreshToken)
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.tokens.Rotate(ctx, secret, userID)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "refresh token rotation failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Authenticate verifies an access token and returns its claims.
func (s *UserService) Authenticate(accessToken string) (*auth.Claims, error) {
	return s.codec.Verify(accessToken)
}

func (s *UserService) issuePair(ctx context.Context, store repomanager.RepositoryManager, user *models.User) (*TokenPair, error) {
	access, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.create(ctx, store.RefreshTokens(), user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dummy returns a hash to compare against when the account does not exist.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err == nil {
			s.dummyHash, err = auth.HashPassword(pw, s.passwordCost)
		}
		if err != nil {
			s.log.Warn(context.Background(), "dummy hash unavailable", "error", err)
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
