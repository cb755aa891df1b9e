package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The UNIQUE constraint on email is the source of truth for registration
// uniqueness; the service-level existence pre-check only produces a
// friendlier error before the insert.
const createUsuariosTable = `
CREATE TABLE IF NOT EXISTS usuarios (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	rol TEXT NOT NULL DEFAULT '',
	lenguage TEXT NOT NULL DEFAULT ''
)`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createUsuariosTable)

	return err
}
