package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/alejandrodnm/holderscan/internal/ports"
)

// AgeCache guarda la edad en días de cada wallet.
// Solo se guardan edades resueltas; un fallo nunca se cachea.
type AgeCache interface {
	Get(addr domain.Address) (days int, ok bool)
	Set(addr domain.Address, days int)
}

type ageEntry struct {
	days     int
	storedAt time.Time
}

// MemoryAgeCache es un AgeCache en memoria, seguro para uso concurrente.
// Con ttl == 0 las entradas no expiran nunca (vive lo que dura el proceso).
type MemoryAgeCache struct {
	mu      sync.RWMutex
	entries map[domain.Address]ageEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryAgeCache crea una cache vacía. now == nil usa time.Now.
func NewMemoryAgeCache(ttl time.Duration, now func() time.Time) *MemoryAgeCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryAgeCache{
		entries: make(map[domain.Address]ageEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get devuelve la edad guardada de addr; las entradas vencidas se purgan.
func (c *MemoryAgeCache) Get(addr domain.Address) (int, bool) {
	key := domain.NormalizeAddress(addr.String())

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return 0, false
	}
	return e.days, true
}

// Set guarda la edad de addr con el instante actual.
func (c *MemoryAgeCache) Set(addr domain.Address, days int) {
	key := domain.NormalizeAddress(addr.String())

	c.mu.Lock()
	c.entries[key] = ageEntry{days: days, storedAt: c.now()}
	c.mu.Unlock()
}

// Len devuelve el número de entradas (incluye las expiradas aún no purgadas).
func (c *MemoryAgeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// AgeResolver calcula la edad de una wallet a partir de su primera transacción.
type AgeResolver struct {
	history ports.AccountHistory
	cache   AgeCache
	now     func() time.Time
}

// NewAgeResolver crea un AgeResolver. Si cache es nil usa una MemoryAgeCache sin expiración.
func NewAgeResolver(history ports.AccountHistory, cache AgeCache, now func() time.Time) *AgeResolver {
	if now == nil {
		now = time.Now
	}
	if cache == nil {
		cache = NewMemoryAgeCache(0, now)
	}
	return &AgeResolver{history: history, cache: cache, now: now}
}

// AgeInDays devuelve los días completos desde la primera transacción de addr.
// Una wallet sin historial tiene edad 0. Los errores se envuelven con domain.ErrAgeUnavailable.
func (r *AgeResolver) AgeInDays(ctx context.Context, addr domain.Address) (int, error) {
	if days, ok := r.cache.Get(addr); ok {
		slog.Debug("wallet age cache hit", "address", addr, "days", days)
		return days, nil
	}

	first, found, err := r.history.FirstTransactionTime(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("scanner.AgeInDays: %s: %w: %w", addr, domain.ErrAgeUnavailable, err)
	}

	days := 0
	if found {
		days = int(r.now().Sub(first) / (24 * time.Hour))
		if days < 0 {
			days = 0
		}
	}

	r.cache.Set(addr, days)
	return days, nil
}
