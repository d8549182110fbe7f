package lock

import (
	"context"
	"fmt"
	"time"
)

// DistributedLock 调度器选主使用的锁
type DistributedLock interface {
	// TryLock 不阻塞；已持有时视为续期
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	IsLocked() bool
	GetLockKey() string
}

// LockOptions 持有者需在 TTL 内再次 TryLock，否则锁被其他节点抢占
type LockOptions struct {
	TTL time.Duration
}

func DefaultLockOptions() *LockOptions {
	return &LockOptions{TTL: 30 * time.Second}
}

// LockManager 单机部署用本地实现，多实例部署用 redis 实现
type LockManager interface {
	NewLock(key string, opts *LockOptions) DistributedLock
}

const (
	ErrCodeLockNotHeld = "LOCK_NOT_HELD"
	ErrCodeLockExpired = "LOCK_EXPIRED"
	ErrCodeBackend     = "LOCK_BACKEND"
)

type LockError struct {
	Code    string
	Message string
	Cause   error
}

func NewLockError(code, message string, cause error) *LockError {
	return &LockError{Code: code, Message: message, Cause: cause}
}

func (e *LockError) Error() string {
	msg := fmt.Sprintf("lock %s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LockError) Unwrap() error { return e.Cause }
