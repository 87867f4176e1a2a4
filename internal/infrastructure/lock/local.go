// Package lock provides ports.WriterLock implementations: an in-process lock for a
// single instance and a redis lock for instances sharing one database.
package lock

import (
	"context"
	"strings"
	"sync"

	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

type LocalLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

var _ ports.WriterLock = (*LocalLock)(nil)

func NewLocalLock() *LocalLock {
	return &LocalLock{slots: make(map[string]chan struct{})}
}

// Acquire blocks until key is free or ctx is done.
func (l *LocalLock) Acquire(ctx context.Context, key string) (func(), error) {
	slot := l.slot(strings.TrimSpace(key))

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, errs.Wrapf(ctx.Err(), "acquire writer lock %q", key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}

func (l *LocalLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	return slot
}
