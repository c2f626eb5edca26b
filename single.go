// Single implementation for rxlite
// 单值序列：恰好发射一个值，或一个错误
package rxlite

import (
	"sync/atomic"
)

// ============================================================================
// Single 实现
// ============================================================================

// Single 恰好一个值或一个错误的序列，与Observable共享同一状态机
type Single struct {
	s *stream
}

// SingleEmitter CreateSingle的生产过程只能调用Success或Error之一，且只能调用一次
type SingleEmitter interface {
	Success(value interface{})
	Error(err error)
	Add(disposable Disposable)
	IsDisposed() bool
}

// singleEmitter 检测重复调用的SingleEmitter实现
type singleEmitter struct {
	e      *Emitter
	called atomic.Bool
}

func (se *singleEmitter) claim(call string) bool {
	if se.called.CompareAndSwap(false, true) {
		return true
	}
	se.e.config.reportViolation(&ContractViolationError{
		Op:     "single",
		Reason: call + " called after the single already signalled",
	})
	return false
}

// Success 以一个值成功
func (se *singleEmitter) Success(value interface{}) {
	if se.claim("Success") {
		se.e.Next(value)
	}
}

// Error 以错误失败
func (se *singleEmitter) Error(err error) {
	if se.claim("Error") {
		se.e.Error(err)
	}
}

// Add 登记随订阅终止而释放的资源
func (se *singleEmitter) Add(disposable Disposable) {
	se.e.Add(disposable)
}

// IsDisposed 订阅是否已终止或被取消
func (se *singleEmitter) IsDisposed() bool {
	return se.e.IsDisposed()
}

// CreateSingle 从自定义生产过程创建Single
func CreateSingle(source func(emitter SingleEmitter), options ...Option) Single {
	return Single{s: newStream(KindSingle, func(e *Emitter) {
		source(&singleEmitter{e: e})
	}, newConfig(options))}
}

// JustSingle 以给定值成功的Single
func JustSingle(value interface{}) Single {
	return Single{s: newStream(KindSingle, func(e *Emitter) {
		e.Next(value)
	}, nil)}
}

// ErrorSingle 以给定错误失败的Single
func ErrorSingle(err error) Single {
	return Single{s: newStream(KindSingle, func(e *Emitter) {
		e.Error(err)
	}, nil)}
}

// Kind 返回 KindSingle
func (s Single) Kind() Kind {
	return s.s.kind
}

// Subscribe 订阅单值观察者
func (s Single) Subscribe(onSuccess func(interface{}), onError OnError) Disposable {
	return s.s.subscribe(func(item Item) {
		switch item.Kind {
		case SignalNext:
			if onSuccess != nil {
				onSuccess(item.Value)
			}
		case SignalError:
			if onError != nil {
				onError(item.Error)
			}
		}
	})
}

// SubscribeObserver 以原始信号订阅：成功表现为一个值加完成
func (s Single) SubscribeObserver(observer Observer) Disposable {
	return s.s.subscribe(observer)
}

// Map 转换操作符
func (s Single) Map(transformer Transformer) Single {
	return Single{s: s.s.derive(KindSingle, func(e *Emitter) {
		s.s.subscribeFrom(e, mapObserver(e, transformer))
	})}
}

// FlatMap 以成功值生成下一个Single并订阅它
func (s Single) FlatMap(transformer func(interface{}) Single) Single {
	return Single{s: s.s.derive(KindSingle, func(e *Emitter) {
		s.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				var next Single
				if err := callSafely(func() { next = transformer(item.Value) }); err != nil {
					e.Error(err)
					return
				}
				next.s.subscribeFrom(e, forward(e))
			case SignalError:
				e.Emit(item)
			}
		})
	})}
}

// ToObservable 转换为Observable：一个值后完成
func (s Single) ToObservable() Observable {
	return Observable{s: s.s.derive(KindObservable, func(e *Emitter) {
		s.s.subscribeFrom(e, forward(e))
	})}
}
