package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between replicas.
type MemoryBackend struct {
	c *cache.Cache
}

// NewMemoryBackend returns a backend that purges expired entries every cleanup interval.
func NewMemoryBackend(cleanup time.Duration) *MemoryBackend {
	return &MemoryBackend{c: cache.New(cache.NoExpiration, cleanup)}
}

func (m *MemoryBackend) Load(_ context.Context, ref string) (State, error) {
	v, ok := m.c.Get(ref)
	if !ok {
		return State{}, ErrNotFound
	}
	return v.(State).clone(), nil
}

func (m *MemoryBackend) Save(_ context.Context, ref string, st State, ttl time.Duration) (string, error) {
	if ref == "" {
		ref = uuid.NewString()
	}
	m.c.Set(ref, st.clone(), ttl)
	return ref, nil
}

func (m *MemoryBackend) Delete(_ context.Context, ref string) error {
	m.c.Delete(ref)
	return nil
}
