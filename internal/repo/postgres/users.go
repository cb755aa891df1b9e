package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softjobs/softjobs-backend/internal/domain/user"
	"github.com/softjobs/softjobs-backend/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {

		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// GetByEmail returns the full row including the password hash. Login is the
// only caller that needs it.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password, rol, lenguage
			 FROM usuarios
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.Language,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// GetPublicByEmail returns the projected row; the hash is never scanned so
// it cannot leak through this path.
func (r *UsersRepo) GetPublicByEmail(ctx context.Context, email string) (user.PublicUser, error) {
	var u user.PublicUser

	err := r.observe("users.get_public_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, rol, lenguage
			 FROM usuarios
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.Role,
			&u.Language,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.PublicUser{}, user.ErrNotFound
		}

		return user.PublicUser{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, rol, lenguage string) (user.PublicUser, error) {
	var u user.PublicUser

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO usuarios (email, password, rol, lenguage)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, email, rol, lenguage`,
			email, passwordHash, rol, lenguage,
		).Scan(
			&u.ID,
			&u.Email,
			&u.Role,
			&u.Language,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError

		// unique_violation: a concurrent registration won the race
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.PublicUser{}, user.ErrEmailTaken
		}

		return user.PublicUser{}, err
	}

	return u, nil
}
