package ports

import (
	"context"
	"errors"
)

var ErrLockNotObtained = errors.New("writer lock not obtained")

// WriterLock serializes state-changing operations sharing a key. release must be
// called exactly once.
type WriterLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
