package rxtest

import (
	"github.com/xinjiayu/rxlite"
)

// Cold 按虚拟时间发射events的冷源：每次订阅都从订阅时刻起重新调度全部事件
func Cold(scheduler rxlite.Scheduler, events ...Event) rxlite.Observable {
	timeline := append([]Event(nil), events...)

	return rxlite.Create(func(e *rxlite.Emitter) {
		for _, ev := range timeline {
			item := ev.Item()
			handle := scheduler.ScheduleOnce(ev.At, func() {
				e.Emit(item)
			})
			e.Add(rxlite.AsDisposable(handle))
		}
	})
}
