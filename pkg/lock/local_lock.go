package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLockManager 进程内锁，未启用 Redis 的单节点部署使用
type LocalLockManager struct {
	mu      sync.Mutex
	holders map[string]*localLock
	expires map[string]time.Time
}

func NewLocalLockManager() *LocalLockManager {
	return &LocalLockManager{
		holders: make(map[string]*localLock),
		expires: make(map[string]time.Time),
	}
}

func (m *LocalLockManager) NewLock(key string, opts *LockOptions) DistributedLock {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	return &localLock{manager: m, key: key, ttl: opts.TTL}
}

type localLock struct {
	manager *LocalLockManager
	key     string
	ttl     time.Duration
}

func (l *localLock) TryLock(context.Context) (bool, error) {
	m := l.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	holder, ok := m.holders[l.key]
	if ok && holder != l && now.Before(m.expires[l.key]) {
		return false, nil
	}
	m.holders[l.key] = l
	m.expires[l.key] = now.Add(l.ttl)
	return true, nil
}

func (l *localLock) Unlock(context.Context) error {
	m := l.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.holders[l.key] != l {
		return NewLockError(ErrCodeLockNotHeld, l.key, nil)
	}
	delete(m.holders, l.key)
	delete(m.expires, l.key)
	return nil
}

func (l *localLock) IsLocked() bool {
	m := l.manager
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holders[l.key] == l && time.Now().Before(m.expires[l.key])
}

func (l *localLock) GetLockKey() string {
	return l.key
}
