// Error handling operators for rxlite
// 错误处理操作符：以给定值替换错误
package rxlite

// OnErrorReturnItem 上游出错时发射value然后完成
func (o Observable) OnErrorReturnItem(value interface{}) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			if item.IsError() {
				e.Next(value)
				e.Complete()
				return
			}
			e.Emit(item)
		})
	})}
}

// OnErrorReturnItem 失败时以value成功
func (s Single) OnErrorReturnItem(value interface{}) Single {
	return Single{s: s.s.derive(KindSingle, func(e *Emitter) {
		s.s.subscribeFrom(e, func(item Item) {
			if item.IsError() {
				e.Next(value)
				return
			}
			e.Emit(item)
		})
	})}
}

// OnErrorResumeNext 上游出错时切换到fallback返回的Observable
func (o Observable) OnErrorResumeNext(fallback func(err error) Observable) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			if !item.IsError() {
				e.Emit(item)
				return
			}

			var next Observable
			if err := callSafely(func() { next = fallback(item.Error) }); err != nil {
				e.Error(err)
				return
			}
			next.s.subscribeFrom(e, forward(e))
		})
	})}
}
