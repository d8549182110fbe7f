package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// taskQueue 实现 heap.Interface，堆顶为最早到期的任务
type taskQueue []Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].GetNextTime().Before(q[j].GetNextTime())
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x interface{}) { *q = append(*q, x.(Task)) }

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// TaskHeap 带锁的任务最小堆
type TaskHeap struct {
	mu    sync.RWMutex
	queue taskQueue
}

func NewTaskHeap() *TaskHeap {
	return &TaskHeap{queue: make(taskQueue, 0)}
}

func (th *TaskHeap) SafePush(task Task) {
	th.mu.Lock()
	heap.Push(&th.queue, task)
	th.mu.Unlock()
}

// SafeRemove 按 ID 移除，不存在时返回 false
func (th *TaskHeap) SafeRemove(taskID string) bool {
	th.mu.Lock()
	defer th.mu.Unlock()

	for i, t := range th.queue {
		if t.GetID() == taskID {
			heap.Remove(&th.queue, i)
			return true
		}
	}
	return false
}

// SafeList 返回快照，顺序为堆内顺序
func (th *TaskHeap) SafeList() []Task {
	th.mu.RLock()
	defer th.mu.RUnlock()

	out := make([]Task, len(th.queue))
	copy(out, th.queue)
	return out
}

// GetNextExecuteTime 堆为空时返回 nil
func (th *TaskHeap) GetNextExecuteTime() *time.Time {
	th.mu.RLock()
	defer th.mu.RUnlock()

	if len(th.queue) == 0 {
		return nil
	}
	next := th.queue[0].GetNextTime()
	return &next
}

// PopReadyTasks 弹出 now 时刻所有可执行的任务
func (th *TaskHeap) PopReadyTasks(now time.Time) []Task {
	th.mu.Lock()
	defer th.mu.Unlock()

	var ready []Task
	for len(th.queue) > 0 && th.queue[0].CanExecute(now) {
		ready = append(ready, heap.Pop(&th.queue).(Task))
	}
	return ready
}
