// Scheduler implementations for rxlite
// 调度器：虚拟时间的测试调度器与真实时间的调度器，二者共享同一任务队列实现
package rxlite

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"
)

// ============================================================================
// 调度器接口
// ============================================================================

// Scheduler 调度器接口，控制延时与周期任务的执行时机。
// 任务按触发时间顺序执行，触发时间相同时按调度顺序执行
type Scheduler interface {
	// Now 调度器时间线上的当前时间
	Now() time.Time
	// ScheduleOnce 在delay之后执行一次action
	ScheduleOnce(delay time.Duration, action func()) CancelHandle
	// SchedulePeriodic 在initialDelay之后首次执行，此后每隔period执行一次，直到取消
	SchedulePeriodic(initialDelay, period time.Duration, action func()) CancelHandle
}

func checkPeriod(period time.Duration) {
	if period <= 0 {
		panic("rxlite: non-positive period for SchedulePeriodic")
	}
}

func clampDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	return delay
}

// ============================================================================
// 测试调度器 - Test Scheduler
// ============================================================================

// TestScheduler 虚拟时间调度器，时间只在AdvanceTimeBy/AdvanceTimeTo时前进。
// 任务在推进时间的goroutine上、调度器锁之外执行，回调中可以再调度或取消任务
type TestScheduler struct {
	mu    sync.Mutex
	start time.Time
	clock time.Time
	tl    *timeline
}

// NewTestScheduler 创建测试调度器，时钟从Unix纪元开始
func NewTestScheduler() *TestScheduler {
	start := time.Unix(0, 0).UTC()
	return &TestScheduler{
		start: start,
		clock: start,
		tl:    &timeline{},
	}
}

// Now 当前虚拟时间
func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Elapsed 从创建到当前虚拟时间经过的时长
func (s *TestScheduler) Elapsed() time.Duration {
	return s.Now().Sub(s.start)
}

// ScheduleOnce 延迟调度任务
func (s *TestScheduler) ScheduleOnce(delay time.Duration, action func()) CancelHandle {
	return s.tl.push(s.Now().Add(clampDelay(delay)), 0, action)
}

// SchedulePeriodic 周期调度任务（固定速率）
func (s *TestScheduler) SchedulePeriodic(initialDelay, period time.Duration, action func()) CancelHandle {
	checkPeriod(period)
	return s.tl.push(s.Now().Add(clampDelay(initialDelay)), period, action)
}

// AdvanceTimeBy 推进时间
func (s *TestScheduler) AdvanceTimeBy(duration time.Duration) {
	s.AdvanceTimeTo(s.Now().Add(duration))
}

// AdvanceTimeTo 推进时间到指定时刻，依次执行期间到期的任务
func (s *TestScheduler) AdvanceTimeTo(target time.Time) {
	for {
		task, ok := s.tl.popDue(target)
		if !ok {
			break
		}

		s.mu.Lock()
		if task.at.After(s.clock) {
			s.clock = task.at
		}
		s.mu.Unlock()

		task.action()

		if task.periodic() {
			s.tl.reschedule(task)
		}
	}

	s.mu.Lock()
	if target.After(s.clock) {
		s.clock = target
	}
	s.mu.Unlock()
}

// Pending 尚未执行且未取消的任务数
func (s *TestScheduler) Pending() int {
	return s.tl.pending()
}

// ============================================================================
// 真实时间调度器 - Real Scheduler
// ============================================================================

// RealScheduler 墙上时钟调度器。一个分发goroutine按时间顺序串行执行任务
type RealScheduler struct {
	tl        *timeline
	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	loopID    atomic.Int64
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewRealScheduler 创建真实时间调度器并启动分发循环
func NewRealScheduler(options ...Option) *RealScheduler {
	config := newConfig(options)

	s := &RealScheduler{
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: config.Logger,
	}
	s.tl = &timeline{onPush: s.notify}

	ready := make(chan struct{})
	go s.loop(ready)
	<-ready

	return s
}

// Now 当前墙上时间
func (s *RealScheduler) Now() time.Time {
	return time.Now()
}

// ScheduleOnce 延迟调度任务
func (s *RealScheduler) ScheduleOnce(delay time.Duration, action func()) CancelHandle {
	return s.tl.push(time.Now().Add(clampDelay(delay)), 0, action)
}

// SchedulePeriodic 周期调度任务（固定速率）
func (s *RealScheduler) SchedulePeriodic(initialDelay, period time.Duration, action func()) CancelHandle {
	checkPeriod(period)
	return s.tl.push(time.Now().Add(clampDelay(initialDelay)), period, action)
}

// Pending 尚未执行且未取消的任务数
func (s *RealScheduler) Pending() int {
	return s.tl.pending()
}

// Close 停止分发循环并丢弃未执行的任务。
// 在分发goroutine之外调用时等待循环退出
func (s *RealScheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.tl.close()
	})

	if goid.Get() != s.loopID.Load() {
		<-s.done
	}
}

func (s *RealScheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// loop 分发循环
func (s *RealScheduler) loop(ready chan<- struct{}) {
	defer close(s.done)

	s.loopID.Store(goid.Get())
	close(ready)

	for {
		for {
			select {
			case <-s.stop:
				return
			default:
			}

			task, ok := s.tl.popDue(time.Now())
			if !ok {
				break
			}
			s.run(task)
		}

		var timerC <-chan time.Time
		var timer *time.Timer
		if next, ok := s.tl.peek(); ok {
			timer = time.NewTimer(time.Until(next))
			timerC = timer.C
		}

		select {
		case <-s.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-s.wake:
		case <-timerC:
		}

		if timer != nil {
			timer.Stop()
		}
	}
}

// run 执行任务；任务panic只记录日志，不终止分发循环
func (s *RealScheduler) run(task *scheduledTask) {
	if err := callSafely(task.action); err != nil {
		s.logger.Error("scheduled task panicked", "error", err)
	}

	if task.periodic() {
		s.tl.reschedule(task)
	}
}
