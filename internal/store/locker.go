package store

import (
	"context"
	"sync"
)

type keyLock struct {
	sem  chan struct{}
	refs int
}

// Locker serializes work per name. Unused names are forgotten.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// RunSerialized runs fn while holding the lock for name. Waiting for the
// lock stops when ctx is done.
func (l *Locker) RunSerialized(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	kl := l.acquireRef(name)
	defer l.releaseRef(name, kl)

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-kl.sem }()

	return fn(ctx)
}

func (l *Locker) acquireRef(name string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.locks[name]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[name] = kl
	}
	kl.refs++
	return kl
}

func (l *Locker) releaseRef(name string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, name)
	}
}
