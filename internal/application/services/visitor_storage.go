package services

import (
	"context"
	"sync"
	"time"

	"github.com/gamehub/portal/internal/domain/interactions"
	"github.com/gamehub/portal/internal/ports"
)

// visitorStorage binds a request context and a visitor id onto the shared
// key-value store so the domain stores see a plain synchronous Storage.
type visitorStorage struct {
	ctx       context.Context
	kv        ports.KeyValueStore
	visitorID string
	timeout   time.Duration
}

var _ interactions.Storage = (*visitorStorage)(nil)

func newVisitorStorage(ctx context.Context, kv ports.KeyValueStore, visitorID string, timeout time.Duration) *visitorStorage {
	return &visitorStorage{ctx: ctx, kv: kv, visitorID: visitorID, timeout: timeout}
}

func (v *visitorStorage) opContext() (context.Context, context.CancelFunc) {
	if v.timeout <= 0 {
		return v.ctx, func() {}
	}
	return context.WithTimeout(v.ctx, v.timeout)
}

func (v *visitorStorage) Load(key string) ([]byte, error) {
	ctx, cancel := v.opContext()
	defer cancel()
	return v.kv.Get(ctx, v.visitorID, key)
}

func (v *visitorStorage) Save(key string, data []byte) error {
	ctx, cancel := v.opContext()
	defer cancel()
	return v.kv.Set(ctx, v.visitorID, key, data)
}

// visitorLocks serializes read-modify-write cycles on one visitor's record.
// Entries are reference counted and dropped once no request holds them.
type visitorLocks struct {
	mu    sync.Mutex
	locks map[string]*visitorLock
}

type visitorLock struct {
	mu   sync.Mutex
	refs int
}

func newVisitorLocks() *visitorLocks {
	return &visitorLocks{locks: make(map[string]*visitorLock)}
}

// Lock blocks until the visitor's record is free and returns the release func.
func (l *visitorLocks) Lock(visitorID string) func() {
	l.mu.Lock()
	vl, ok := l.locks[visitorID]
	if !ok {
		vl = &visitorLock{}
		l.locks[visitorID] = vl
	}
	vl.refs++
	l.mu.Unlock()

	vl.mu.Lock()
	return func() {
		vl.mu.Unlock()
		l.mu.Lock()
		vl.refs--
		if vl.refs == 0 {
			delete(l.locks, visitorID)
		}
		l.mu.Unlock()
	}
}

func (l *visitorLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
