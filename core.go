// Package rxlite provides a minimal push-based reactive stream runtime for Go
// 精简的推送式响应式流运行时：Observable / Single / Maybe 三种基数契约，
// 组合、创建、聚合操作符，以及可注入的调度器（真实时间与虚拟时间）
package rxlite

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// 核心类型定义
// ============================================================================

// SignalKind 信号类型
type SignalKind int

const (
	// SignalNext 数据信号
	SignalNext SignalKind = iota
	// SignalError 错误终止信号
	SignalError
	// SignalComplete 完成终止信号
	SignalComplete
)

// String 返回信号名称
func (k SignalKind) String() string {
	switch k {
	case SignalNext:
		return "next"
	case SignalError:
		return "error"
	case SignalComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Item 表示流中的一个信号。Kind决定信号类型，nil是合法的数据值
type Item struct {
	Kind  SignalKind
	Value interface{}
	Error error
}

// IsNext 是否为数据信号
func (item Item) IsNext() bool {
	return item.Kind == SignalNext
}

// IsError 检查项目是否包含错误
func (item Item) IsError() bool {
	return item.Kind == SignalError
}

// IsComplete 是否为完成信号
func (item Item) IsComplete() bool {
	return item.Kind == SignalComplete
}

// IsTerminal 是否为终止信号（错误或完成）
func (item Item) IsTerminal() bool {
	return item.Kind != SignalNext
}

// CreateItem 创建包含值的项目
func CreateItem(value interface{}) Item {
	return Item{Kind: SignalNext, Value: value}
}

// CreateErrorItem 创建包含错误的项目
func CreateErrorItem(err error) Item {
	return Item{Kind: SignalError, Error: err}
}

// CompleteItem 创建完成信号
func CompleteItem() Item {
	return Item{Kind: SignalComplete}
}

// ============================================================================
// 函数类型定义
// ============================================================================

// Observer 观察者函数类型
type Observer func(item Item)

// OnNext 处理下一个值的函数
type OnNext func(value interface{})

// OnError 处理错误的函数
type OnError func(err error)

// OnComplete 处理完成的函数
type OnComplete func()

// Predicate 谓词函数，用于过滤
type Predicate func(value interface{}) bool

// Transformer 转换函数，用于映射
type Transformer func(value interface{}) (interface{}, error)

// Reducer 归约函数，用于聚合
type Reducer func(accumulator, current interface{}) interface{}

// BiFunction 双参数组合函数，用于ZipWith和CombineLatestWith
type BiFunction func(a, b interface{}) interface{}

// Combiner 多参数组合函数，用于Zip和CombineLatest
type Combiner func(values ...interface{}) interface{}

// ============================================================================
// 生命周期管理
// ============================================================================

// Disposable 可释放资源的接口
type Disposable interface {
	// Dispose 释放资源，幂等
	Dispose()
	// IsDisposed 检查是否已释放
	IsDisposed() bool
}

// CompositeDisposable 组合式资源管理器
type CompositeDisposable struct {
	mu        sync.Mutex
	disposed  bool
	resources []Disposable
}

// NewCompositeDisposable 创建组合式资源管理器
func NewCompositeDisposable(resources ...Disposable) *CompositeDisposable {
	return &CompositeDisposable{
		resources: append(make([]Disposable, 0, len(resources)), resources...),
	}
}

// Add 添加可释放资源；已释放时立即释放新资源
func (cd *CompositeDisposable) Add(disposable Disposable) {
	if disposable == nil {
		return
	}

	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		disposable.Dispose()
		return
	}
	cd.resources = append(cd.resources, disposable)
	cd.mu.Unlock()
}

// Remove 移除资源但不释放它，返回资源是否仍被持有
func (cd *CompositeDisposable) Remove(disposable Disposable) bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	for i, resource := range cd.resources {
		if resource == disposable {
			last := len(cd.resources) - 1
			cd.resources[i] = cd.resources[last]
			cd.resources[last] = nil
			cd.resources = cd.resources[:last]
			return true
		}
	}
	return false
}

// Dispose 释放所有资源。释放动作在锁外执行，资源可以安全地回调Add
func (cd *CompositeDisposable) Dispose() {
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		return
	}
	cd.disposed = true
	resources := cd.resources
	cd.resources = nil
	cd.mu.Unlock()

	for _, resource := range resources {
		resource.Dispose()
	}
}

// IsDisposed 检查是否已释放
func (cd *CompositeDisposable) IsDisposed() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.disposed
}

// Len 当前持有的资源数量
func (cd *CompositeDisposable) Len() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.resources)
}

// baseDisposable 基础可释放资源实现
type baseDisposable struct {
	disposed int32
	action   func()
}

// NewBaseDisposable 创建基础可释放资源
func NewBaseDisposable(action func()) Disposable {
	return &baseDisposable{
		action: action,
	}
}

// Dispose 释放资源
func (d *baseDisposable) Dispose() {
	if atomic.CompareAndSwapInt32(&d.disposed, 0, 1) {
		if d.action != nil {
			d.action()
		}
	}
}

// IsDisposed 检查是否已释放
func (d *baseDisposable) IsDisposed() bool {
	return atomic.LoadInt32(&d.disposed) == 1
}

// ============================================================================
// 类型标签
// ============================================================================

// Kind 序列的基数契约标签：三种序列共享同一个状态机实现
type Kind int

const (
	// KindObservable 零个或多个值
	KindObservable Kind = iota
	// KindSingle 恰好一个值或一个错误
	KindSingle
	// KindMaybe 零个或一个值，或一个错误
	KindMaybe
)

// String 返回标签名称
func (k Kind) String() string {
	switch k {
	case KindObservable:
		return "observable"
	case KindSingle:
		return "single"
	case KindMaybe:
		return "maybe"
	default:
		return "unknown"
	}
}

// OnSubscribe 生产过程：每次订阅以新的Emitter调用一次
type OnSubscribe func(e *Emitter)

// stream 三种序列共用的底层表示
type stream struct {
	kind   Kind
	source OnSubscribe
	config *Config
}

func newStream(kind Kind, source OnSubscribe, config *Config) *stream {
	if config == nil {
		config = DefaultConfig()
	}
	return &stream{kind: kind, source: source, config: config}
}

// subscribe 建立一次订阅：Idle -> Active，然后执行生产过程
func (s *stream) subscribe(observer Observer) *Emitter {
	return s.subscribeFrom(nil, observer)
}

// subscribeFrom 在下游订阅parent之内建立上游订阅。
// 上游订阅在生产过程运行前登记到parent，parent终止时同步生产循环能立即停止
func (s *stream) subscribeFrom(parent *Emitter, observer Observer) *Emitter {
	e := s.attach(parent, observer)
	s.start(e)
	return e
}

// attach 创建登记到parent的上游订阅，但不运行生产过程。
// 观察者需要引用自身订阅时（例如完成后从parent移除）先attach再start
func (s *stream) attach(parent *Emitter, observer Observer) *Emitter {
	e := newEmitter(s.kind, observer, s.config)
	if parent != nil {
		parent.Add(e)
	}
	return e
}

// start Idle -> Active，然后运行生产过程
func (s *stream) start(e *Emitter) {
	e.activate()
	if e.IsDisposed() {
		return
	}

	if err := callSafely(func() { s.source(e) }); err != nil {
		e.Error(err)
	}
}

// derive 以同样的配置创建下游序列
func (s *stream) derive(kind Kind, source OnSubscribe) *stream {
	return newStream(kind, source, s.config)
}

// ============================================================================
// 工具函数
// ============================================================================

// callSafely 执行用户函数，把panic转换为错误。契约违规属于程序缺陷，继续向上panic
func callSafely(action func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if violation, ok := r.(*ContractViolationError); ok {
				panic(violation)
			}
			err = panicToError(r)
		}
	}()

	action()
	return nil
}

// forward 把上游信号原样转发到下游发射器
func forward(e *Emitter) Observer {
	return e.Emit
}
