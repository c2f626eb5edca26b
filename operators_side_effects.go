// Side effect operators for rxlite
// 副作用操作符：观察信号但不改变信号，包含DoOnNext, DoOnError, DoOnComplete, DoFinally, Log
package rxlite

// ============================================================================
// 副作用操作符实现
// ============================================================================

// DoOnNext 每个值到达时执行副作用；action panic时以错误终止
func (o Observable) DoOnNext(action OnNext) Observable {
	return o.doOnEach(func(item Item) {
		if item.IsNext() {
			action(item.Value)
		}
	})
}

// DoOnError 错误到达时、转发之前执行副作用
func (o Observable) DoOnError(action OnError) Observable {
	return o.doOnEach(func(item Item) {
		if item.IsError() {
			action(item.Error)
		}
	})
}

// DoOnComplete 完成信号到达时、转发之前执行副作用
func (o Observable) DoOnComplete(action OnComplete) Observable {
	return o.doOnEach(func(item Item) {
		if item.IsComplete() {
			action()
		}
	})
}

// DoOnTerminate 错误或完成到达时、转发之前执行副作用
func (o Observable) DoOnTerminate(action func()) Observable {
	return o.doOnEach(func(item Item) {
		if item.IsTerminal() {
			action()
		}
	})
}

// DoOnEach 对每个信号执行副作用
func (o Observable) DoOnEach(action func(Item)) Observable {
	return o.doOnEach(action)
}

func (o Observable) doOnEach(action func(Item)) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			if err := callSafely(func() { action(item) }); err != nil {
				e.Error(err)
				return
			}
			e.Emit(item)
		})
	})}
}

// DoFinally 订阅终止或被取消后执行一次action
func (o Observable) DoFinally(action func()) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		e.Add(NewBaseDisposable(func() {
			if err := callSafely(action); err != nil {
				e.config.Logger.Error("finally action panicked", "attachment", e.ID(), "error", err)
			}
		}))
		o.s.subscribeFrom(e, forward(e))
	})}
}

// Log 以Debug级别记录经过的每个信号，name用于区分多条序列
func (o Observable) Log(name string) Observable {
	return Observable{s: o.s.derive(KindObservable, func(e *Emitter) {
		logger := e.config.Logger.With("sequence", name, "attachment", e.ID())
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				logger.Debug("signal", "kind", item.Kind.String(), "value", item.Value)
			case SignalError:
				logger.Debug("signal", "kind", item.Kind.String(), "error", item.Error)
			default:
				logger.Debug("signal", "kind", item.Kind.String())
			}
			e.Emit(item)
		})
	})}
}
