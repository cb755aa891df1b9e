package memory

import (
	"context"
	"sync"

	"github.com/softjobs/softjobs-backend/internal/domain/user"
)

// UsersRepo is an in-memory stand-in for the postgres repo, used in tests.
type UsersRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[string]user.User // keyed by email
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[email]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetPublicByEmail(ctx context.Context, email string) (user.PublicUser, error) {
	u, err := r.GetByEmail(ctx, email)

	if err != nil {
		return user.PublicUser{}, err
	}

	return u.Public(), nil
}

func (r *UsersRepo) Create(_ context.Context, email, passwordHash, rol, lenguage string) (user.PublicUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[email]; ok {
		// mirrors the store-level unique constraint
		return user.PublicUser{}, user.ErrEmailTaken
	}

	r.seq++

	u := user.User{
		ID:           r.seq,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         rol,
		Language:     lenguage,
	}
	r.items[email] = u

	return u.Public(), nil
}
