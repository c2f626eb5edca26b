// Cardinality conversions for rxlite
// 基数转换：Observable、Single、Maybe之间的显式转换函数
package rxlite

// FirstOrError 取第一个值作为Single并释放上游；上游为空时以ErrEmptySequence失败
func FirstOrError(o Observable) Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				e.Next(item.Value)
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				e.Error(NewNoSuchElementError("firstOrError"))
			}
		})
	})}
}

// FirstOrEmpty 取第一个值作为Maybe并释放上游；上游为空时Maybe为空
func FirstOrEmpty(o Observable) Maybe {
	return Maybe{s: o.s.derive(KindMaybe, func(e *Emitter) {
		o.s.subscribeFrom(e, forward(e))
	})}
}

// SingleOrError 上游必须恰好发射一个值：多于一个时以ErrMoreThanOneElement失败并释放上游，
// 为空时以ErrEmptySequence失败
func SingleOrError(o Observable) Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		var value interface{}
		hasValue := false

		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				if hasValue {
					e.Error(ErrMoreThanOneElement)
					return
				}
				value, hasValue = item.Value, true
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				if hasValue {
					e.Next(value)
				} else {
					e.Error(NewNoSuchElementError("singleOrError"))
				}
			}
		})
	})}
}

// DefaultIfEmpty Maybe为空时以defaultValue成功
func DefaultIfEmpty(m Maybe, defaultValue interface{}) Single {
	return maybeToSingle(m, func(e *Emitter) {
		e.Next(defaultValue)
	})
}

// MaybeToSingle Maybe为空时以ErrEmptySequence失败
func MaybeToSingle(m Maybe) Single {
	return maybeToSingle(m, func(e *Emitter) {
		e.Error(NewNoSuchElementError("toSingle"))
	})
}

func maybeToSingle(m Maybe, onEmpty func(e *Emitter)) Single {
	return Single{s: m.s.derive(KindSingle, func(e *Emitter) {
		hasValue := false
		m.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				hasValue = true
				e.Next(item.Value)
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				if !hasValue {
					onEmpty(e)
				}
			}
		})
	})}
}

// SingleToMaybe 把Single视为必有值的Maybe
func SingleToMaybe(s Single) Maybe {
	return Maybe{s: s.s.derive(KindMaybe, func(e *Emitter) {
		s.s.subscribeFrom(e, forward(e))
	})}
}

// FilterSingle 值满足谓词时发射，否则为空
func FilterSingle(s Single, predicate Predicate) Maybe {
	return Maybe{s: s.s.derive(KindMaybe, func(e *Emitter) {
		s.s.subscribeFrom(e, filterToMaybe(e, predicate))
	})}
}
