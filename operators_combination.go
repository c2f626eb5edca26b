// Combination operators for rxlite
// 组合操作符实现，包含Zip, Merge, CombineLatest, Concat
package rxlite

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// Zip
// ============================================================================

// Zip 把各源的第i个值组合为一个输出。
// 某个已完成的源缓冲耗尽时立即完成，其他源多出的值被丢弃；任一源出错立即以该错误终止
func Zip(sources []Observable, zipper Combiner) Observable {
	return zip(nil, sources, zipper)
}

// ZipWith 与另一个Observable按序号配对
func (o Observable) ZipWith(other Observable, zipper BiFunction) Observable {
	return zip(o.s, []Observable{o, other}, func(values ...interface{}) interface{} {
		return zipper(values[0], values[1])
	})
}

func zip(parent *stream, sources []Observable, zipper Combiner) Observable {
	if len(sources) == 0 {
		return Empty()
	}
	srcs := append([]Observable(nil), sources...)

	return Observable{s: deriveFrom(parent, func(e *Emitter) {
		n := len(srcs)
		queues := make([][]interface{}, n)
		done := make([]bool, n)
		var mu sync.Mutex

		// drain 调用方持有mu
		drain := func() {
			for {
				exhausted, waiting := false, false
				for i := 0; i < n; i++ {
					if len(queues[i]) == 0 {
						waiting = true
						if done[i] {
							exhausted = true
						}
					}
				}
				if exhausted {
					e.Complete()
					return
				}
				if waiting {
					return
				}

				row := make([]interface{}, n)
				for i := range queues {
					row[i] = queues[i][0]
					queues[i][0] = nil
					queues[i] = queues[i][1:]
				}

				var result interface{}
				if err := callSafely(func() { result = zipper(row...) }); err != nil {
					e.Error(err)
					return
				}
				e.Next(result)
				if e.IsDisposed() {
					return
				}
			}
		}

		for i, src := range srcs {
			if e.IsDisposed() {
				return
			}
			index := i
			src.s.subscribeFrom(e, func(item Item) {
				mu.Lock()
				defer mu.Unlock()

				if e.IsDisposed() {
					return
				}
				switch item.Kind {
				case SignalNext:
					queues[index] = append(queues[index], item.Value)
					drain()
				case SignalError:
					for j := range queues {
						queues[j] = nil
					}
					e.Emit(item)
				case SignalComplete:
					done[index] = true
					drain()
				}
			})
		}
	})}
}

// ============================================================================
// Merge
// ============================================================================

// Merge 按到达顺序转发所有源的值；全部完成后完成，第一个错误立即终止并释放其余源
func Merge(sources ...Observable) Observable {
	return merge(nil, sources)
}

// MergeWith 与其他Observable合并
func (o Observable) MergeWith(others ...Observable) Observable {
	return merge(o.s, append([]Observable{o}, others...))
}

func merge(parent *stream, sources []Observable) Observable {
	if len(sources) == 0 {
		return Empty()
	}
	srcs := append([]Observable(nil), sources...)

	return Observable{s: deriveFrom(parent, func(e *Emitter) {
		var remaining atomic.Int32
		remaining.Store(int32(len(srcs)))

		for _, src := range srcs {
			if e.IsDisposed() {
				return
			}
			src.s.subscribeFrom(e, func(item Item) {
				if item.IsComplete() {
					if remaining.Add(-1) == 0 {
						e.Complete()
					}
					return
				}
				e.Emit(item)
			})
		}
	})}
}

// ============================================================================
// CombineLatest
// ============================================================================

// CombineLatest 任一源发射时，用所有源的最新值组合输出；在每个源都至少发射一次之前不输出。
// 所有源完成后完成；某个源没有发射过值就完成时立即完成；任一源出错立即终止
func CombineLatest(sources []Observable, combiner Combiner) Observable {
	return combineLatest(nil, sources, combiner)
}

// CombineLatestWith 与另一个Observable组合最新值
func (o Observable) CombineLatestWith(other Observable, combiner BiFunction) Observable {
	return combineLatest(o.s, []Observable{o, other}, func(values ...interface{}) interface{} {
		return combiner(values[0], values[1])
	})
}

func combineLatest(parent *stream, sources []Observable, combiner Combiner) Observable {
	if len(sources) == 0 {
		return Empty()
	}
	srcs := append([]Observable(nil), sources...)

	return Observable{s: deriveFrom(parent, func(e *Emitter) {
		n := len(srcs)
		latest := make([]interface{}, n)
		hasValue := make([]bool, n)
		valued, completed := 0, 0
		var mu sync.Mutex

		for i, src := range srcs {
			if e.IsDisposed() {
				return
			}
			index := i
			src.s.subscribeFrom(e, func(item Item) {
				mu.Lock()
				defer mu.Unlock()

				if e.IsDisposed() {
					return
				}
				switch item.Kind {
				case SignalNext:
					if !hasValue[index] {
						hasValue[index] = true
						valued++
					}
					latest[index] = item.Value
					if valued < n {
						return
					}

					snapshot := append([]interface{}(nil), latest...)
					var result interface{}
					if err := callSafely(func() { result = combiner(snapshot...) }); err != nil {
						e.Error(err)
						return
					}
					e.Next(result)
				case SignalError:
					e.Emit(item)
				case SignalComplete:
					completed++
					if !hasValue[index] || completed == n {
						e.Complete()
					}
				}
			})
		}
	})}
}

// ============================================================================
// Concat
// ============================================================================

// Concat 依次订阅各源，前一个完成后才订阅下一个
func Concat(sources ...Observable) Observable {
	return concat(nil, sources)
}

// ConcatWith 当前Observable完成后继续其他Observable
func (o Observable) ConcatWith(others ...Observable) Observable {
	return concat(o.s, append([]Observable{o}, others...))
}

// StartWith 先发射给定的值，再发射当前Observable
func (o Observable) StartWith(values ...interface{}) Observable {
	return concat(o.s, []Observable{FromSlice(values), o})
}

func concat(parent *stream, sources []Observable) Observable {
	srcs := append([]Observable(nil), sources...)

	return Observable{s: deriveFrom(parent, func(e *Emitter) {
		var subscribeAt func(index int)
		subscribeAt = func(index int) {
			if index >= len(srcs) {
				e.Complete()
				return
			}
			if e.IsDisposed() {
				return
			}
			// 已完成的源在订阅下一个源之前撤销登记
			var current *Emitter
			current = srcs[index].s.attach(e, func(item Item) {
				if item.IsComplete() {
					e.Remove(current)
					subscribeAt(index + 1)
					return
				}
				e.Emit(item)
			})
			srcs[index].s.start(current)
		}
		subscribeAt(0)
	})}
}

// deriveFrom 以parent的配置创建Observable；parent为nil时使用默认配置
func deriveFrom(parent *stream, source OnSubscribe) *stream {
	if parent == nil {
		return newStream(KindObservable, source, nil)
	}
	return parent.derive(KindObservable, source)
}
