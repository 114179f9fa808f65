package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct {
	m *Manager
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.m.lock()()
	st := r.m.st

	if _, ok := st.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	st.users[user.ID] = *user
	st.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.m.lock()()
	st := r.m.st

	id, ok := st.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := st.users[id]
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	defer r.m.lock()()

	u, ok := r.m.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
