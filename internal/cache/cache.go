package cache

import (
	"context"
	"sync"
	"time"

	"github.com/softjobs/softjobs-backend/internal/domain/user"
)

// ProfileCache is the cache-aside store for public profile rows, keyed by
// email. Misses are never errors; a broken cache degrades to DB reads.
type ProfileCache interface {
	Get(ctx context.Context, email string) (user.PublicUser, bool)
	Set(ctx context.Context, email string, u user.PublicUser)
	Delete(ctx context.Context, email string)
}

// Local is the in-process implementation, used when no redis address is
// configured and as the cache double in tests.
type Local struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	val user.PublicUser
	exp time.Time
}

func NewLocal(ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Local{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *Local) Get(_ context.Context, email string) (user.PublicUser, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[email]
	c.mu.RUnlock()
	if !ok {
		return user.PublicUser{}, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, email)
		c.mu.Unlock()
		return user.PublicUser{}, false
	}

	return e.val, true
}

func (c *Local) Set(_ context.Context, email string, u user.PublicUser) {
	c.mu.Lock()
	c.m[email] = entry{val: u, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Local) Delete(_ context.Context, email string) {
	c.mu.Lock()
	delete(c.m, email)
	c.mu.Unlock()
}
