// Time-based operators for rxlite
// 时间操作符：在调度器时间线上平移信号
package rxlite

import (
	"time"
)

// Delay 把每个值和完成信号在调度器时间线上推迟delay；错误立即转发
func (o Observable) Delay(scheduler Scheduler, delay time.Duration) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			if item.IsError() {
				e.Emit(item)
				return
			}

			scheduleOnceOn(e, scheduler, delay, func() {
				e.Emit(item)
			})
		})
	})}
}

// Delay 把成功值推迟delay；错误立即转发
func (s Single) Delay(scheduler Scheduler, delay time.Duration) Single {
	return Single{s: s.s.derive(KindSingle, func(e *Emitter) {
		s.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				scheduleOnceOn(e, scheduler, delay, func() {
					e.Emit(item)
				})
			case SignalError:
				e.Emit(item)
			}
		})
	})}
}
