// Blocking operators for rxlite
// 阻塞操作符：在调用方goroutine上等待终止信号，ctx取消时释放订阅
package rxlite

import (
	"context"
)

// ============================================================================
// Observable
// ============================================================================

// BlockingSubscribe 订阅并阻塞到终止信号。
// 完成时返回nil，出错时返回该错误；ctx先结束时释放订阅并返回ctx.Err()
func (o Observable) BlockingSubscribe(ctx context.Context, observer Observer) error {
	done := make(chan error, 1)

	subscription := o.Subscribe(func(item Item) {
		if observer != nil {
			observer(item)
		}
		switch item.Kind {
		case SignalError:
			done <- item.Error
		case SignalComplete:
			done <- nil
		}
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		subscription.Dispose()
		return ctx.Err()
	}
}

// BlockingToSlice 阻塞收集所有值
func (o Observable) BlockingToSlice(ctx context.Context) ([]interface{}, error) {
	value, err := o.ToSlice().BlockingGet(ctx)
	if err != nil {
		return nil, err
	}
	return value.([]interface{}), nil
}

// BlockingFirst 阻塞获取第一个值；序列为空时返回ErrEmptySequence
func (o Observable) BlockingFirst(ctx context.Context) (interface{}, error) {
	return FirstOrError(o).BlockingGet(ctx)
}

// ============================================================================
// Single / Maybe
// ============================================================================

// BlockingGet 阻塞等待结果，ctx取消时释放订阅并返回ctx.Err()
func (s Single) BlockingGet(ctx context.Context) (interface{}, error) {
	type result struct {
		value interface{}
		err   error
	}

	ch := make(chan result, 1)
	d := s.Subscribe(
		func(value interface{}) { ch <- result{value: value} },
		func(err error) { ch <- result{err: err} },
	)

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		d.Dispose()
		return nil, ctx.Err()
	}
}

// BlockingGet 阻塞等待结果；ok为false表示Maybe为空
func (m Maybe) BlockingGet(ctx context.Context) (value interface{}, ok bool, err error) {
	type result struct {
		value interface{}
		ok    bool
		err   error
	}

	ch := make(chan result, 1)
	d := m.Subscribe(
		func(v interface{}) { ch <- result{value: v, ok: true} },
		func(e error) { ch <- result{err: e} },
		func() { ch <- result{} },
	)

	select {
	case r := <-ch:
		return r.value, r.ok, r.err
	case <-ctx.Done():
		d.Dispose()
		return nil, false, ctx.Err()
	}
}
