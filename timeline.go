// Scheduled task queue for rxlite schedulers
// 调度任务队列：按 (触发时间, 调度序号) 排序的最小堆
package rxlite

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
)

// scheduledTask 待执行或周期执行的任务，只由所属timeline修改
type scheduledTask struct {
	at        time.Time
	period    time.Duration
	action    func()
	seq       uint64
	index     int
	cancelled atomic.Bool
}

func (t *scheduledTask) periodic() bool {
	return t.period > 0
}

// taskHeap 实现 heap.Interface
type taskHeap []*scheduledTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	task := x.(*scheduledTask)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*h = old[:n-1]
	return task
}

// timeline 调度器共用的任务队列。后调度但更早触发的任务总是先执行
type timeline struct {
	mu     sync.Mutex
	tasks  taskHeap
	seq    uint64
	closed bool
	// onPush 新任务入队后调用（在锁外），真实调度器用它唤醒分发循环
	onPush func()
}

func (tl *timeline) push(at time.Time, period time.Duration, action func()) CancelHandle {
	task := &scheduledTask{at: at, period: period, action: action, index: -1}

	tl.mu.Lock()
	if tl.closed {
		tl.mu.Unlock()
		task.cancelled.Store(true)
		return &cancelHandle{task: task, owner: tl}
	}
	tl.seq++
	task.seq = tl.seq
	heap.Push(&tl.tasks, task)
	tl.mu.Unlock()

	if tl.onPush != nil {
		tl.onPush()
	}
	return &cancelHandle{task: task, owner: tl}
}

// popDue 取出触发时间不晚于deadline的最早任务
func (tl *timeline) popDue(deadline time.Time) (*scheduledTask, bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	for len(tl.tasks) > 0 {
		next := tl.tasks[0]
		if next.cancelled.Load() {
			heap.Pop(&tl.tasks)
			continue
		}
		if next.at.After(deadline) {
			return nil, false
		}
		heap.Pop(&tl.tasks)
		return next, true
	}
	return nil, false
}

// peek 最早未取消任务的触发时间
func (tl *timeline) peek() (time.Time, bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	for len(tl.tasks) > 0 {
		next := tl.tasks[0]
		if next.cancelled.Load() {
			heap.Pop(&tl.tasks)
			continue
		}
		return next.at, true
	}
	return time.Time{}, false
}

// reschedule 周期任务执行后按固定速率重新入队
func (tl *timeline) reschedule(task *scheduledTask) {
	if task.cancelled.Load() {
		return
	}

	tl.mu.Lock()
	if tl.closed {
		tl.mu.Unlock()
		return
	}
	task.at = task.at.Add(task.period)
	tl.seq++
	task.seq = tl.seq
	heap.Push(&tl.tasks, task)
	tl.mu.Unlock()

	if tl.onPush != nil {
		tl.onPush()
	}
}

func (tl *timeline) remove(task *scheduledTask) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if task.index >= 0 && task.index < len(tl.tasks) && tl.tasks[task.index] == task {
		heap.Remove(&tl.tasks, task.index)
	}
}

func (tl *timeline) pending() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	count := 0
	for _, task := range tl.tasks {
		if !task.cancelled.Load() {
			count++
		}
	}
	return count
}

func (tl *timeline) close() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.closed = true
	for _, task := range tl.tasks {
		task.cancelled.Store(true)
		task.index = -1
	}
	tl.tasks = nil
}

// ============================================================================
// 取消句柄
// ============================================================================

// CancelHandle 调度任务的取消句柄
type CancelHandle interface {
	// Cancel 取消任务，幂等
	Cancel()
}

// cancelHandle 只持有任务的回指，调用方无法修改任务本身
type cancelHandle struct {
	task  *scheduledTask
	owner *timeline
}

// Cancel 取消任务
func (h *cancelHandle) Cancel() {
	if h.task.cancelled.CompareAndSwap(false, true) {
		h.owner.remove(h.task)
	}
}

// cancelDisposable 释放时取消调度任务。句柄可以晚于登记绑定，
// 绑定前已释放时绑定即取消
type cancelDisposable struct {
	mu       sync.Mutex
	handle   CancelHandle
	disposed bool
}

// AsDisposable 把CancelHandle适配为Disposable，以便登记到Emitter
func AsDisposable(handle CancelHandle) Disposable {
	d := &cancelDisposable{}
	d.bind(handle)
	return d
}

func (d *cancelDisposable) bind(handle CancelHandle) {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		handle.Cancel()
		return
	}
	d.handle = handle
	d.mu.Unlock()
}

func (d *cancelDisposable) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	handle := d.handle
	d.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
}

func (d *cancelDisposable) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// scheduleOnceOn 在scheduler上调度一次action，取消句柄登记到e，任务执行后撤销登记。
// 长期存活的订阅因此只持有尚未触发的任务
func scheduleOnceOn(e *Emitter, scheduler Scheduler, delay time.Duration, action func()) {
	d := &cancelDisposable{}
	e.Add(d)
	d.bind(scheduler.ScheduleOnce(delay, func() {
		action()
		e.Remove(d)
	}))
}
