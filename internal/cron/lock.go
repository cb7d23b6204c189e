package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = 25 * time.Hour

// Lock coordinates exclusive cron runs across worker instances.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// lockStore is the subset of the redis client used by RedisLock.
type lockStore interface {
	AcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	LockHolder(ctx context.Context, name string) (string, error)
	ReleaseLock(ctx context.Context, name string) error
}

// RedisLock implements Lock with a namespaced SETNX key.
type RedisLock struct {
	store  lockStore
	name   string
	ttl    time.Duration
	holder string
}

// NewRedisLock constructs a redis-backed lock.
func NewRedisLock(store lockStore, name string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if name == "" {
		return nil, errors.New("lock name is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, name: name, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	holder := uuid.NewString()
	ok, err := l.store.AcquireLock(ctx, l.name, holder, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	if ok {
		l.holder = holder
	}
	return ok, nil
}

// Release frees the lock only if this instance still holds it.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.holder == "" {
		return nil
	}
	current, err := l.store.LockHolder(ctx, l.name)
	if err != nil {
		return fmt.Errorf("read lock holder: %w", err)
	}
	if current != "" && current != l.holder {
		return nil
	}
	if err := l.store.ReleaseLock(ctx, l.name); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	l.holder = ""
	return nil
}
