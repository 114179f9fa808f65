package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/google/uuid"
)

type tokenRepo struct {
	m *Manager
}

func (r *tokenRepo) Create(ctx context.Context, userID string, token string, expiresAt time.Time) (*models.RefreshToken, error) {
	defer r.m.lock()()
	st := r.m.st

	if _, ok := st.users[userID]; !ok {
		// mirrors the foreign key on refresh_tokens.user_id
		return nil, common.ErrorNotFound
	}
	if _, ok := st.byToken[token]; ok {
		return nil, common.ErrorAlreadyExists
	}

	rec := models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	st.tokens[rec.ID] = rec
	st.byToken[token] = rec.ID
	return &rec, nil
}

func (r *tokenRepo) FindActive(ctx context.Context, token string, userID string, now time.Time) (*models.RefreshToken, error) {
	defer r.m.lock()()
	st := r.m.st

	t, ok := st.tokens[st.byToken[token]]
	if !ok || t.UserID != userID || !t.Active(now) {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *tokenRepo) Delete(ctx context.Context, id string) error {
	defer r.m.lock()()
	st := r.m.st

	t, ok := st.tokens[id]
	if !ok {
		return common.ErrorNotFound
	}
	st.drop(t)
	return nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	defer r.m.lock()()
	st := r.m.st

	var n int64
	for _, t := range st.tokens {
		if !t.Active(now) {
			st.drop(t)
			n++
		}
	}
	return n, nil
}

func (s *state) drop(t models.RefreshToken) {
	delete(s.tokens, t.ID)
	delete(s.byToken, t.Token)
}
