// Per-attachment execution context for rxlite
// 每次订阅的执行上下文：唯一权威的状态机 Idle -> Active -> Terminated
package rxlite

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	stateIdle int32 = iota
	stateActive
	stateTerminated
)

// Emitter 一次订阅的执行上下文，同时是订阅返回的Disposable。
//
// 发往观察者的信号由mu串行化；进入Terminated后到达的信号被静默丢弃。
// 终止时释放通过Add登记的全部资源（上游订阅、调度器任务）。
// Dispose不获取mu，因此可以在观察者回调中调用。
type Emitter struct {
	id        string
	kind      Kind
	config    *Config
	state     atomic.Int32
	mu        sync.Mutex
	hasValue  bool
	observer  Observer
	resources *CompositeDisposable
}

func newEmitter(kind Kind, observer Observer, config *Config) *Emitter {
	if observer == nil {
		observer = func(Item) {}
	}
	return &Emitter{
		id:        uuid.Must(uuid.NewV7()).String(),
		kind:      kind,
		config:    config,
		observer:  observer,
		resources: NewCompositeDisposable(),
	}
}

// activate Idle -> Active
func (e *Emitter) activate() {
	if e.state.CompareAndSwap(stateIdle, stateActive) {
		e.config.Logger.Debug("attachment started", "attachment", e.id, "kind", e.kind.String())
	}
}

// ID 订阅标识，用于日志关联
func (e *Emitter) ID() string {
	return e.id
}

// Kind 订阅所属序列的基数标签
func (e *Emitter) Kind() Kind {
	return e.kind
}

// Next 发射一个值。对Single和Maybe而言，一个值即成功，随后自动完成
func (e *Emitter) Next(value interface{}) {
	e.Emit(CreateItem(value))
}

// Error 以错误终止
func (e *Emitter) Error(err error) {
	e.Emit(CreateErrorItem(err))
}

// Complete 以完成终止
func (e *Emitter) Complete() {
	e.Emit(CompleteItem())
}

// Emit 投递一个信号
func (e *Emitter) Emit(item Item) {
	if e.state.Load() != stateActive {
		return
	}

	// 观察者panic时也要释放资源
	var terminated bool
	defer func() {
		if terminated {
			e.release(item.Kind.String())
		}
	}()
	e.deliver(item, &terminated)
}

// deliver 在mu保护下投递信号。终止决定在调用观察者之前写入terminated
func (e *Emitter) deliver(item Item, terminated *bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Load() != stateActive {
		return
	}

	switch item.Kind {
	case SignalNext:
		if e.kind == KindObservable {
			e.observer(item)
			return
		}
		e.hasValue = true
		e.state.Store(stateTerminated)
		*terminated = true
		e.observer(item)
		e.observer(CompleteItem())
		return

	case SignalComplete:
		if e.kind == KindSingle && !e.hasValue {
			violation := &ContractViolationError{Op: "single", Reason: "completed without a value"}
			e.config.reportViolation(violation)
			item = CreateErrorItem(violation)
		}
	}

	e.state.Store(stateTerminated)
	*terminated = true
	e.observer(item)
}

// Add 登记一个随订阅终止而释放的资源；订阅已终止时立即释放
func (e *Emitter) Add(disposable Disposable) {
	e.resources.Add(disposable)
}

// Remove 撤销Add的登记但不释放资源，用于已经自行结束的资源
func (e *Emitter) Remove(disposable Disposable) {
	e.resources.Remove(disposable)
}

// Dispose 取消订阅：之后不再有任何观察者回调，也不会触发onComplete/onError
func (e *Emitter) Dispose() {
	if e.state.CompareAndSwap(stateActive, stateTerminated) || e.state.CompareAndSwap(stateIdle, stateTerminated) {
		e.release("dispose")
	}
}

// IsDisposed 订阅是否已终止或被取消
func (e *Emitter) IsDisposed() bool {
	return e.state.Load() == stateTerminated
}

func (e *Emitter) release(reason string) {
	if e.resources.IsDisposed() {
		return
	}
	e.resources.Dispose()
	e.config.Logger.Debug("attachment terminated", "attachment", e.id, "kind", e.kind.String(), "reason", reason)
}
