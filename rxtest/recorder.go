// Package rxtest 测试工具：记录信号的Recorder、按虚拟时间发射的冷源、
// YAML场景以及可与golden文件比对的轨迹
package rxtest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xinjiayu/rxlite"
)

// Event 一次被记录的信号，At是相对调度器起点的虚拟时间
type Event struct {
	At    time.Duration
	Kind  rxlite.SignalKind
	Value interface{}
	Err   error
}

// String 轨迹中的一行，例如 "15ms next 11"
func (ev Event) String() string {
	switch ev.Kind {
	case rxlite.SignalNext:
		return fmt.Sprintf("%s next %v", ev.At, ev.Value)
	case rxlite.SignalError:
		return fmt.Sprintf("%s error %v", ev.At, ev.Err)
	default:
		return fmt.Sprintf("%s %s", ev.At, ev.Kind)
	}
}

// Item 转换为rxlite信号
func (ev Event) Item() rxlite.Item {
	switch ev.Kind {
	case rxlite.SignalNext:
		return rxlite.CreateItem(ev.Value)
	case rxlite.SignalError:
		return rxlite.CreateErrorItem(ev.Err)
	default:
		return rxlite.CompleteItem()
	}
}

// Next 在at时刻发射value
func Next(at time.Duration, value interface{}) Event {
	return Event{At: at, Kind: rxlite.SignalNext, Value: value}
}

// Error 在at时刻以err终止
func Error(at time.Duration, err error) Event {
	return Event{At: at, Kind: rxlite.SignalError, Err: err}
}

// Complete 在at时刻完成
func Complete(at time.Duration) Event {
	return Event{At: at, Kind: rxlite.SignalComplete}
}

// ============================================================================
// Recorder
// ============================================================================

// Recorder 记录观察者收到的所有信号，可在多个goroutine中使用
type Recorder struct {
	mu         sync.Mutex
	clock      func() time.Duration
	events     []Event
	terminated chan struct{}
}

// NewRecorder 以调度器的虚拟时间为事件打时间戳
func NewRecorder(scheduler *rxlite.TestScheduler) *Recorder {
	return newRecorder(scheduler.Elapsed)
}

// NewUntimedRecorder 所有事件的时间戳为0，用于同步序列或真实时间
func NewUntimedRecorder() *Recorder {
	return newRecorder(func() time.Duration { return 0 })
}

func newRecorder(clock func() time.Duration) *Recorder {
	return &Recorder{
		clock:      clock,
		terminated: make(chan struct{}),
	}
}

// Observer 交给Subscribe的观察者
func (r *Recorder) Observer() rxlite.Observer {
	return r.record
}

func (r *Recorder) record(item rxlite.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{At: r.clock(), Kind: item.Kind, Value: item.Value, Err: item.Error})
	if item.IsTerminal() && !r.isTerminatedLocked() {
		close(r.terminated)
	}
}

func (r *Recorder) isTerminatedLocked() bool {
	select {
	case <-r.terminated:
		return true
	default:
		return false
	}
}

// Events 所有已记录的事件
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count 已记录的事件数
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Values 所有数据值
func (r *Recorder) Values() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]interface{}, 0, len(r.events))
	for _, ev := range r.events {
		if ev.Kind == rxlite.SignalNext {
			values = append(values, ev.Value)
		}
	}
	return values
}

// Err 终止错误；没有错误时为nil
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.events {
		if ev.Kind == rxlite.SignalError {
			return ev.Err
		}
	}
	return nil
}

// Completed 是否收到完成信号
func (r *Recorder) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.events {
		if ev.Kind == rxlite.SignalComplete {
			return true
		}
	}
	return false
}

// Terminated 是否收到终止信号
func (r *Recorder) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isTerminatedLocked()
}

// TerminalCount 终止信号的数量，契约要求至多为1
func (r *Recorder) TerminalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, ev := range r.events {
		if ev.Kind != rxlite.SignalNext {
			count++
		}
	}
	return count
}

// WaitTerminated 等待终止信号，超时返回false
func (r *Recorder) WaitTerminated(timeout time.Duration) bool {
	select {
	case <-r.terminated:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Trace 每个事件一行的文本轨迹
func (r *Recorder) Trace() string {
	events := r.Events()

	var b strings.Builder
	for _, ev := range events {
		b.WriteString(ev.String())
		b.WriteByte('\n')
	}
	return b.String()
}
