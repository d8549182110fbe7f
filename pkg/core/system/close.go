package system

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	closes []func()
	mu     sync.Mutex
	once   sync.Once
)

// RegisterClose 注册退出钩子，按注册的逆序执行
func RegisterClose(f func()) {
	mu.Lock()
	defer mu.Unlock()

	closes = append(closes, f)
}

// RunCloses 立即执行全部退出钩子，只生效一次
func RunCloses() {
	once.Do(func() {
		mu.Lock()
		fs := make([]func(), len(closes))
		copy(fs, closes)
		mu.Unlock()

		for i := len(fs) - 1; i >= 0; i-- {
			fs[i]()
		}
	})
}

// WaitSignal 阻塞直到收到退出信号，然后执行退出钩子
func WaitSignal() os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-ch
	RunCloses()
	return sig
}
