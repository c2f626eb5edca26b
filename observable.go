// Observable implementation for rxlite
// 零个或多个值的冷序列：每次订阅独立执行生产过程
package rxlite

import (
	"sync/atomic"
)

// ============================================================================
// Observable 核心实现
// ============================================================================

// Observable 零个或多个值的冷序列
type Observable struct {
	s *stream
}

// NewObservable 创建新的Observable
func NewObservable(source OnSubscribe, options ...Option) Observable {
	return Observable{s: newStream(KindObservable, source, newConfig(options))}
}

// Kind 返回 KindObservable
func (o Observable) Kind() Kind {
	return o.s.kind
}

// Subscribe 订阅观察者，返回用于取消的Disposable
func (o Observable) Subscribe(observer Observer) Disposable {
	return o.s.subscribe(observer)
}

// SubscribeWithCallbacks 使用回调函数订阅
func (o Observable) SubscribeWithCallbacks(onNext OnNext, onError OnError, onComplete OnComplete) Disposable {
	return o.Subscribe(callbackObserver(onNext, onError, onComplete))
}

func callbackObserver(onNext OnNext, onError OnError, onComplete OnComplete) Observer {
	return func(item Item) {
		switch item.Kind {
		case SignalNext:
			if onNext != nil {
				onNext(item.Value)
			}
		case SignalError:
			if onError != nil {
				onError(item.Error)
			}
		case SignalComplete:
			if onComplete != nil {
				onComplete()
			}
		}
	}
}

// ============================================================================
// 转换操作符
// ============================================================================

// Map 转换操作符；转换函数返回错误或panic时以错误终止
func (o Observable) Map(transformer Transformer) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, mapObserver(e, transformer))
	})}
}

func mapObserver(e *Emitter, transformer Transformer) Observer {
	return func(item Item) {
		if !item.IsNext() {
			e.Emit(item)
			return
		}

		var result interface{}
		var err error
		if perr := callSafely(func() { result, err = transformer(item.Value) }); perr != nil {
			err = perr
		}
		if err != nil {
			e.Error(err)
			return
		}
		e.Next(result)
	}
}

// Filter 过滤操作符
func (o Observable) Filter(predicate Predicate) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
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
				e.Emit(item)
			}
		})
	})}
}

// Take 取前N个元素后完成，并释放上游
func (o Observable) Take(count int) Observable {
	if count <= 0 {
		return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
			e.Complete()
		})}
	}

	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		var taken int32
		o.s.subscribeFrom(e, func(item Item) {
			if !item.IsNext() {
				e.Emit(item)
				return
			}

			n := atomic.AddInt32(&taken, 1)
			if n > int32(count) {
				return
			}
			e.Emit(item)
			if n == int32(count) {
				e.Complete()
			}
		})
	})}
}
