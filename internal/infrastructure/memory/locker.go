package memory

import (
	"context"
	"sync"

	appalloc "github.com/jhoicas/mrp-api/internal/application/allocation"
)

var _ appalloc.MaterialLocker = (*Locker)(nil)

// Locker serializa por material con un mutex por clave (proceso único).
// El equivalente multi-proceso es el advisory lock de PostgreSQL.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocker construye el locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// WithLock ejecuta fn con el lock del material tomado.
func (l *Locker) WithLock(ctx context.Context, itemID string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[itemID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[itemID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
