// Package lock serializes work on shared scheduling resources (rooms, instructors,
// requests) across request workers.
package lock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// Locker acquires every key or none. The returned release func is safe to call once.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

// normalize sorts and dedupes keys so two lockers never wait on each other in
// opposite order.
func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── in-process ──

// Local is a keyed mutex for single-instance deployments and tests.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocal creates a Local locker. wait <= 0 waits until ctx is done.
func NewLocal(wait time.Duration) *Local {
	return &Local{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock implements Locker.
func (l *Local) Lock(ctx context.Context, keys ...string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	held := make([]chan struct{}, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, k := range normalize(keys) {
		ch := l.slot(k)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			releaseAll()
			return nil, pkgerrors.ErrLockBusy
		}
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

// ── redis ──

// Store is the subset of pkg/redis.Client the distributed locker needs.
type Store interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// Distributed locks keys in Redis so several API instances serialize on the same room.
type Distributed struct {
	store  Store
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewDistributed creates a Redis-backed locker.
func NewDistributed(store Store, ttl, wait time.Duration, logger *zap.Logger) *Distributed {
	return &Distributed{store: store, ttl: ttl, wait: wait, retry: 25 * time.Millisecond, logger: logger}
}

// Lock implements Locker.
func (d *Distributed) Lock(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(d.wait)

	var held []string
	release := func() {
		// Use a fresh context: the caller's may already be canceled.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := d.store.Unlock(rctx, held[i], token); err != nil {
				d.logger.Warn("release resource lock", zap.String("key", held[i]), zap.Error(err))
			}
		}
	}

	for _, k := range normalize(keys) {
		for {
			ok, err := d.store.TryLock(ctx, k, token, d.ttl)
			if err != nil {
				release()
				return nil, err
			}
			if ok {
				held = append(held, k)
				break
			}
			if time.Now().After(deadline) {
				release()
				return nil, pkgerrors.ErrLockBusy
			}
			select {
			case <-time.After(d.retry):
			case <-ctx.Done():
				release()
				return nil, ctx.Err()
			}
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// Keys used by the scheduling engine.

func RoomKey(id string) string {
	if id == "" {
		return ""
	}
	return "room:" + id
}

func InstructorKey(id string) string {
	if id == "" {
		return ""
	}
	return "instructor:" + id
}

func RecordKey(kind, id string) string { return kind + ":" + id }
