package lock

import (
	"context"
	"sync"
	"time"
)

// Keyed hands out one exclusive lock per key. The scheduler takes the lock
// for an area id around its read-check-persist step, so two concurrent
// mutations on the same area serialize while different areas proceed
// independently. Only one key is ever held per operation.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{
		entries: make(map[string]*entry),
	}
}

// Acquire blocks until the key's lock is held, the timeout elapses, or ctx is
// cancelled. On success it returns a release function; the caller must invoke
// it exactly once. Waiting longer than timeout returns context.DeadlineExceeded.
func (k *Keyed) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	k.mu.Lock()

	ent, ok := k.entries[key]
	if !ok {
		ent = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = ent
	}

	ent.refs++
	k.mu.Unlock()

	select {
	case ent.sem <- struct{}{}:
		return func() {
			<-ent.sem
			k.put(key, ent)
		}, nil
	case <-ctx.Done():
		k.put(key, ent)

		return nil, ctx.Err() //nolint:wrapcheck
	}
}

// put drops one reference and forgets the key once nobody holds or waits on it.
func (k *Keyed) put(key string, ent *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ent.refs--
	if ent.refs == 0 {
		delete(k.entries, key)
	}
}
