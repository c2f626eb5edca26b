package rxlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinjiayu/rxlite"
	"github.com/xinjiayu/rxlite/rxtest"
)

func TestFactories(t *testing.T) {
	t.Run("Just", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.Just(1, "two", 3.0).Subscribe(rec.Observer())

		assert.Equal(t, []interface{}{1, "two", 3.0}, rec.Values())
		assert.True(t, rec.Completed())
	})

	t.Run("FromSlice复制输入", func(t *testing.T) {
		values := []interface{}{1, 2}
		source := rxlite.FromSlice(values)
		values[0] = 99

		rec := rxtest.NewUntimedRecorder()
		source.Subscribe(rec.Observer())
		assert.Equal(t, []interface{}{1, 2}, rec.Values())
	})

	t.Run("冷序列每次订阅重新执行", func(t *testing.T) {
		source := rxlite.Range(5, 3)
		for i := 0; i < 2; i++ {
			rec := rxtest.NewUntimedRecorder()
			source.Subscribe(rec.Observer())
			assert.Equal(t, []interface{}{5, 6, 7}, rec.Values())
			assert.True(t, rec.Completed())
		}
	})

	t.Run("Range为空", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.Range(0, 0).Subscribe(rec.Observer())
		assert.Equal(t, "0s complete\n", rec.Trace())
	})

	t.Run("Empty Never Error", func(t *testing.T) {
		empty := rxtest.NewUntimedRecorder()
		rxlite.Empty().Subscribe(empty.Observer())
		assert.Equal(t, 1, empty.Count())
		assert.True(t, empty.Completed())

		never := rxtest.NewUntimedRecorder()
		d := rxlite.Never().Subscribe(never.Observer())
		assert.Equal(t, 0, never.Count())
		assert.False(t, d.IsDisposed())

		boom := errors.New("boom")
		failed := rxtest.NewUntimedRecorder()
		rxlite.Error(boom).Subscribe(failed.Observer())
		assert.Same(t, boom, failed.Err())
	})

	t.Run("Take为0时直接完成", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.Never().Take(0).Subscribe(rec.Observer())
		assert.True(t, rec.Completed())
	})
}

func TestDefer(t *testing.T) {
	t.Run("每次订阅调用一次supplier", func(t *testing.T) {
		calls := 0
		source := rxlite.Defer(func() rxlite.Observable {
			calls++
			return rxlite.Just(calls)
		})
		assert.Equal(t, 0, calls)

		first := rxtest.NewUntimedRecorder()
		source.Subscribe(first.Observer())
		second := rxtest.NewUntimedRecorder()
		source.Subscribe(second.Observer())

		assert.Equal(t, 2, calls)
		assert.Equal(t, []interface{}{1}, first.Values())
		assert.Equal(t, []interface{}{2}, second.Values())
	})

	t.Run("supplier panic转为错误", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.Defer(func() rxlite.Observable {
			panic("no source")
		}).Subscribe(rec.Observer())

		var panicErr *rxlite.PanicError
		require.ErrorAs(t, rec.Err(), &panicErr)
		assert.Contains(t, panicErr.Error(), "no source")
	})
}

// ============================================================================
// 时间相关
// ============================================================================

func TestInterval(t *testing.T) {
	sched := rxlite.NewTestScheduler()
	rec := rxtest.NewRecorder(sched)

	d := rxlite.Interval(sched, ms(10), ms(20)).Subscribe(rec.Observer())
	sched.AdvanceTimeBy(ms(75))

	assert.Equal(t, "10ms next 0\n30ms next 1\n50ms next 2\n70ms next 3\n", rec.Trace())
	assert.False(t, rec.Terminated())

	d.Dispose()
	assert.Equal(t, 0, sched.Pending())
	sched.AdvanceTimeBy(time.Second)
	assert.Equal(t, 4, rec.Count())
}

func TestTimer(t *testing.T) {
	sched := rxlite.NewTestScheduler()
	rec := rxtest.NewRecorder(sched)

	rxlite.Timer(sched, ms(100)).Subscribe(rec.Observer())
	sched.AdvanceTimeBy(ms(99))
	assert.Equal(t, 0, rec.Count())

	sched.AdvanceTimeBy(ms(1))
	assert.Equal(t, "100ms next 0\n100ms complete\n", rec.Trace())
	assert.Equal(t, []interface{}{int64(0)}, rec.Values())
}

func TestDelay(t *testing.T) {
	t.Run("值与完成信号整体平移", func(t *testing.T) {
		sched := rxlite.NewTestScheduler()
		rec := rxtest.NewRecorder(sched)

		source := rxtest.Cold(sched, rxtest.Next(ms(10), 1), rxtest.Next(ms(20), 2), rxtest.Complete(ms(25)))
		source.Delay(sched, ms(30)).Subscribe(rec.Observer())
		sched.AdvanceTimeBy(time.Second)

		assert.Equal(t, "40ms next 1\n50ms next 2\n55ms complete\n", rec.Trace())
	})

	t.Run("错误立即转发并取消待发射的值", func(t *testing.T) {
		boom := errors.New("boom")
		sched := rxlite.NewTestScheduler()
		rec := rxtest.NewRecorder(sched)

		source := rxtest.Cold(sched, rxtest.Next(ms(10), 1), rxtest.Error(ms(20), boom))
		source.Delay(sched, ms(30)).Subscribe(rec.Observer())
		sched.AdvanceTimeBy(time.Second)

		assert.Equal(t, "20ms error boom\n", rec.Trace())
		assert.Equal(t, 0, sched.Pending())
	})

	t.Run("Single", func(t *testing.T) {
		sched := rxlite.NewTestScheduler()
		rec := rxtest.NewRecorder(sched)

		rxlite.JustSingle("v").Delay(sched, ms(5)).SubscribeObserver(rec.Observer())
		sched.AdvanceTimeBy(time.Second)

		assert.Equal(t, "5ms next v\n5ms complete\n", rec.Trace())
	})
}
