// Factory functions for rxlite
// 创建操作符：立即发射、集合回放、延迟构造，以及基于调度器的时间源
package rxlite

import (
	"time"
)

// ============================================================================
// 基础工厂函数
// ============================================================================

// Just 依次发射给定的值后完成，订阅时同步执行
func Just(values ...interface{}) Observable {
	return FromSlice(values)
}

// FromSlice 按顺序发射切片中的元素后完成；每个元素之间检查取消
func FromSlice(slice []interface{}) Observable {
	items := append([]interface{}(nil), slice...)
	return NewObservable(func(e *Emitter) {
		for _, value := range items {
			if e.IsDisposed() {
				return
			}
			e.Next(value)
		}
		e.Complete()
	})
}

// Range 发射 start, start+1, ..., start+count-1
func Range(start, count int) Observable {
	return NewObservable(func(e *Emitter) {
		for i := 0; i < count; i++ {
			if e.IsDisposed() {
				return
			}
			e.Next(start + i)
		}
		e.Complete()
	})
}

// Empty 直接完成
func Empty() Observable {
	return NewObservable(func(e *Emitter) {
		e.Complete()
	})
}

// Never 不发射任何信号
func Never() Observable {
	return NewObservable(func(e *Emitter) {})
}

// Error 直接以错误终止
func Error(err error) Observable {
	return NewObservable(func(e *Emitter) {
		e.Error(err)
	})
}

// Create 从自定义生产过程创建Observable；生产过程在订阅时同步执行，
// 异步工作应通过e.Add登记可释放资源
func Create(source OnSubscribe, options ...Option) Observable {
	return NewObservable(source, options...)
}

// Defer 延迟创建Observable：每次订阅都重新调用supplier，构造时从不调用
func Defer(supplier func() Observable) Observable {
	return NewObservable(func(e *Emitter) {
		var source Observable
		if err := callSafely(func() { source = supplier() }); err != nil {
			e.Error(err)
			return
		}
		source.s.subscribeFrom(e, forward(e))
	})
}

// ============================================================================
// 时间相关工厂函数
// ============================================================================

// Interval 在initialDelay后发射0，此后每隔period发射递增的int64计数；
// 自身从不完成或出错，直到取消订阅
func Interval(scheduler Scheduler, initialDelay, period time.Duration) Observable {
	return NewObservable(func(e *Emitter) {
		var counter int64
		handle := scheduler.SchedulePeriodic(initialDelay, period, func() {
			value := counter
			counter++
			e.Next(value)
		})
		e.Add(AsDisposable(handle))
	})
}

// Timer 在delay后发射int64(0)然后完成
func Timer(scheduler Scheduler, delay time.Duration) Observable {
	return NewObservable(func(e *Emitter) {
		scheduleOnceOn(e, scheduler, delay, func() {
			e.Next(int64(0))
			e.Complete()
		})
	})
}
