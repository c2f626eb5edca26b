// Maybe implementation for rxlite
// 可能为空的单值序列：一个值、空完成，或一个错误
package rxlite

import (
	"sync/atomic"
)

// ============================================================================
// Maybe 实现
// ============================================================================

// Maybe 零个或一个值的序列
type Maybe struct {
	s *stream
}

// MaybeEmitter CreateMaybe的生产过程只能调用Success、Complete、Error之一，且只能调用一次
type MaybeEmitter interface {
	Success(value interface{})
	Complete()
	Error(err error)
	Add(disposable Disposable)
	IsDisposed() bool
}

type maybeEmitter struct {
	e      *Emitter
	called atomic.Bool
}

func (me *maybeEmitter) claim(call string) bool {
	if me.called.CompareAndSwap(false, true) {
		return true
	}
	me.e.config.reportViolation(&ContractViolationError{
		Op:     "maybe",
		Reason: call + " called after the maybe already signalled",
	})
	return false
}

func (me *maybeEmitter) Success(value interface{}) {
	if me.claim("Success") {
		me.e.Next(value)
	}
}

func (me *maybeEmitter) Complete() {
	if me.claim("Complete") {
		me.e.Complete()
	}
}

func (me *maybeEmitter) Error(err error) {
	if me.claim("Error") {
		me.e.Error(err)
	}
}

func (me *maybeEmitter) Add(disposable Disposable) {
	me.e.Add(disposable)
}

func (me *maybeEmitter) IsDisposed() bool {
	return me.e.IsDisposed()
}

// CreateMaybe 从自定义生产过程创建Maybe
func CreateMaybe(source func(emitter MaybeEmitter), options ...Option) Maybe {
	return Maybe{s: newStream(KindMaybe, func(e *Emitter) {
		source(&maybeEmitter{e: e})
	}, newConfig(options))}
}

// JustMaybe 发射给定值的Maybe
func JustMaybe(value interface{}) Maybe {
	return Maybe{s: newStream(KindMaybe, func(e *Emitter) {
		e.Next(value)
	}, nil)}
}

// EmptyMaybe 不发射值直接完成的Maybe
func EmptyMaybe() Maybe {
	return Maybe{s: newStream(KindMaybe, func(e *Emitter) {
		e.Complete()
	}, nil)}
}

// ErrorMaybe 以给定错误失败的Maybe
func ErrorMaybe(err error) Maybe {
	return Maybe{s: newStream(KindMaybe, func(e *Emitter) {
		e.Error(err)
	}, nil)}
}

// Kind 返回 KindMaybe
func (m Maybe) Kind() Kind {
	return m.s.kind
}

// Subscribe 订阅Maybe观察者；onComplete只在没有值时调用
func (m Maybe) Subscribe(onSuccess func(interface{}), onError OnError, onComplete OnComplete) Disposable {
	hasValue := false
	return m.s.subscribe(func(item Item) {
		switch item.Kind {
		case SignalNext:
			hasValue = true
			if onSuccess != nil {
				onSuccess(item.Value)
			}
		case SignalError:
			if onError != nil {
				onError(item.Error)
			}
		case SignalComplete:
			if !hasValue && onComplete != nil {
				onComplete()
			}
		}
	})
}

// SubscribeObserver 以原始信号订阅
func (m Maybe) SubscribeObserver(observer Observer) Disposable {
	return m.s.subscribe(observer)
}

// Map 转换操作符
func (m Maybe) Map(transformer Transformer) Maybe {
	return Maybe{s: m.s.derive(KindMaybe, func(e *Emitter) {
		m.s.subscribeFrom(e, mapObserver(e, transformer))
	})}
}

// Filter 过滤：值不满足谓词时变为空
func (m Maybe) Filter(predicate Predicate) Maybe {
	return Maybe{s: m.s.derive(KindMaybe, func(e *Emitter) {
		m.s.subscribeFrom(e, filterToMaybe(e, predicate))
	})}
}

// filterToMaybe 单值上游经过谓词后投递到Maybe下游
func filterToMaybe(e *Emitter, predicate Predicate) Observer {
	return func(item Item) {
		if !item.IsNext() {
			e.Emit(item)
			return
		}

		var keep bool
		if err := callSafely(func() { keep = predicate(item.Value) }); err != nil {
			e.Error(err)
			return
		}
		if keep {
			e.Next(item.Value)
		} else {
			e.Complete()
		}
	}
}

// ToObservable 转换为Observable
func (m Maybe) ToObservable() Observable {
	return Observable{s: m.s.derive(KindObservable, func(e *Emitter) {
		m.s.subscribeFrom(e, forward(e))
	})}
}
