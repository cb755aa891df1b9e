package service

import (
	"context"
	"errors"

	"github.com/softjobs/softjobs-backend/internal/cache"
	"github.com/softjobs/softjobs-backend/internal/domain/user"
	"github.com/softjobs/softjobs-backend/internal/security"
)

// Domain failure kinds. The HTTP layer maps these to status codes and never
// forwards raw store errors to the client.
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Keep these small interfaces so tests can fake them easily.

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetPublicByEmail(ctx context.Context, email string) (user.PublicUser, error)
	Create(ctx context.Context, email, passwordHash, rol, lenguage string) (user.PublicUser, error)
}

type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Auth struct {
	store    UserStore
	tokens   TokenIssuer
	profiles cache.ProfileCache // optional
}

func NewAuth(store UserStore, tokens TokenIssuer, profiles cache.ProfileCache) *Auth {
	return &Auth{
		store:    store,
		tokens:   tokens,
		profiles: profiles,
	}
}

// Register creates a new account. The existence pre-check only exists to
// produce a friendly error without burning a bcrypt round; the store's
// unique constraint decides races between concurrent registrations.
func (s *Auth) Register(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error) {
	_, err := s.store.GetByEmail(ctx, email)

	if err == nil {
		return user.PublicUser{}, ErrUserAlreadyExists
	}

	if !errors.Is(err, user.ErrNotFound) {
		return user.PublicUser{}, err
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.PublicUser{}, err
	}

	created, err := s.store.Create(ctx, email, hash, rol, lenguage)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			// lost the race with a concurrent registration
			return user.PublicUser{}, ErrUserAlreadyExists
		}

		return user.PublicUser{}, err
	}

	if s.profiles != nil {
		s.profiles.Delete(ctx, email)
	}

	return created, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password stay distinct here; the HTTP layer merges them into one
// 401 so account existence cannot be probed.
func (s *Auth) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return "", ErrInvalidPassword
	}

	return s.tokens.Issue(u.Email)
}

// FetchProfile returns the public row for an identity extracted from an
// already-verified token.
func (s *Auth) FetchProfile(ctx context.Context, email string) (user.PublicUser, error) {
	if s.profiles != nil {
		if u, ok := s.profiles.Get(ctx, email); ok {
			return u, nil
		}
	}

	u, err := s.store.GetPublicByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.PublicUser{}, ErrUserNotFound
		}

		return user.PublicUser{}, err
	}

	if s.profiles != nil {
		s.profiles.Set(ctx, email, u)
	}

	return u, nil
}
