// Aggregation operators for rxlite
// 聚合操作符实现：消费整个上游序列，产出一个Single
package rxlite

// ============================================================================
// 聚合操作符实现
// ============================================================================

// ReduceWith 以initial为种子从左到右折叠所有值；上游为空时发射initial
func (o Observable) ReduceWith(initial interface{}, reducer Reducer) Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		accumulator := initial
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				if err := callSafely(func() { accumulator = reducer(accumulator, item.Value) }); err != nil {
					e.Error(err)
				}
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				e.Next(accumulator)
			}
		})
	})}
}

// Reduce 以第一个值为种子折叠；上游为空时以ErrEmptySequence失败
func (o Observable) Reduce(reducer Reducer) Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		var accumulator interface{}
		hasValue := false
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				if !hasValue {
					accumulator, hasValue = item.Value, true
					return
				}
				if err := callSafely(func() { accumulator = reducer(accumulator, item.Value) }); err != nil {
					e.Error(err)
				}
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				if hasValue {
					e.Next(accumulator)
				} else {
					e.Error(NewNoSuchElementError("reduce"))
				}
			}
		})
	})}
}

// ToSlice 按到达顺序收集所有值，上游完成时发射[]interface{}
func (o Observable) ToSlice() Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		values := make([]interface{}, 0)
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				values = append(values, item.Value)
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				e.Next(values)
			}
		})
	})}
}

// All 所有值都满足谓词时发射true；遇到第一个不满足的值立即发射false并释放上游
func (o Observable) All(predicate Predicate) Single {
	return o.shortCircuit(predicate, false)
}

// Any 存在满足谓词的值时立即发射true并释放上游；否则完成时发射false
func (o Observable) Any(predicate Predicate) Single {
	return o.shortCircuit(predicate, true)
}

// shortCircuit 谓词结果等于trigger时立即以trigger成功，上游完成时以!trigger成功
func (o Observable) shortCircuit(predicate Predicate, trigger bool) Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				var matched bool
				if err := callSafely(func() { matched = predicate(item.Value) }); err != nil {
					e.Error(err)
					return
				}
				if matched == trigger {
					e.Next(trigger)
				}
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				e.Next(!trigger)
			}
		})
	})}
}

// Count 计算上游发射的值的数量
func (o Observable) Count() Single {
	return Single{s: o.s.derive(KindSingle, func(e *Emitter) {
		count := 0
		o.s.subscribeFrom(e, func(item Item) {
			switch item.Kind {
			case SignalNext:
				count++
			case SignalError:
				e.Emit(item)
			case SignalComplete:
				e.Next(count)
			}
		})
	})}
}
