// Package ratelimit contadores de ventana fija para limitar requests por tenant.
// MemoryStore sirve para una sola instancia; RedisStore comparte el contador entre réplicas.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore incrementa el contador de key dentro de la ventana actual y devuelve
// el valor resultante. La primera llamada de cada ventana devuelve 1.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

var _ CounterStore = (*MemoryStore)(nil)

type counter struct {
	count   int64
	resetAt time.Time
}

// MemoryStore contador en memoria protegido por mutex.
// Las ventanas vencidas se purgan de forma perezosa en cada Incr.
type MemoryStore struct {
	mu        sync.Mutex
	counters  map[string]*counter
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore crea un contador en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter), now: time.Now}
}

// Incr implementa CounterStore.
func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &counter{resetAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// sweep elimina ventanas vencidas como máximo una vez por ventana.
func (s *MemoryStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	for k, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, k)
		}
	}
	s.lastSweep = now
}

// Len número de claves vivas.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}
