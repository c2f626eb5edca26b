package rxlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinjiayu/rxlite"
	"github.com/xinjiayu/rxlite/rxtest"
)

func TestSingle(t *testing.T) {
	t.Run("成功表现为一个值加完成", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.JustSingle(42).SubscribeObserver(rec.Observer())

		assert.Equal(t, "0s next 42\n0s complete\n", rec.Trace())
		assert.Equal(t, rxlite.KindSingle, rxlite.JustSingle(1).Kind())
	})

	t.Run("失败", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := singleResult(t, rxlite.ErrorSingle(boom))
		assert.Same(t, boom, err)
	})

	t.Run("CreateSingle", func(t *testing.T) {
		value, err := singleResult(t, rxlite.CreateSingle(func(emitter rxlite.SingleEmitter) {
			assert.False(t, emitter.IsDisposed())
			emitter.Success("ok")
			assert.True(t, emitter.IsDisposed())
		}))
		require.NoError(t, err)
		assert.Equal(t, "ok", value)
	})

	t.Run("Map与FlatMap", func(t *testing.T) {
		doubled := rxlite.JustSingle(21).Map(func(v interface{}) (interface{}, error) {
			return v.(int) * 2, nil
		})
		value, err := singleResult(t, doubled)
		require.NoError(t, err)
		assert.Equal(t, 42, value)

		chained := rxlite.JustSingle(2).FlatMap(func(v interface{}) rxlite.Single {
			return rxlite.JustSingle(v.(int) + 1)
		})
		value, err = singleResult(t, chained)
		require.NoError(t, err)
		assert.Equal(t, 3, value)

		boom := errors.New("boom")
		failed := rxlite.JustSingle(2).FlatMap(func(interface{}) rxlite.Single {
			return rxlite.ErrorSingle(boom)
		})
		_, err = singleResult(t, failed)
		assert.Same(t, boom, err)
	})

	t.Run("ToObservable", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.JustSingle(1).ToObservable().Subscribe(rec.Observer())
		assert.Equal(t, []interface{}{1}, rec.Values())
		assert.True(t, rec.Completed())
	})

	t.Run("OnErrorReturnItem", func(t *testing.T) {
		value, err := singleResult(t, rxlite.ErrorSingle(errors.New("boom")).OnErrorReturnItem(0))
		require.NoError(t, err)
		assert.Equal(t, 0, value)

		value, err = singleResult(t, rxlite.JustSingle(5).OnErrorReturnItem(0))
		require.NoError(t, err)
		assert.Equal(t, 5, value)
	})
}

func TestSingleContractViolation(t *testing.T) {
	t.Run("默认panic", func(t *testing.T) {
		source := rxlite.CreateSingle(func(emitter rxlite.SingleEmitter) {
			emitter.Success(1)
			emitter.Error(errors.New("second"))
		})

		assert.Panics(t, func() {
			source.Subscribe(nil, nil)
		})
	})

	t.Run("使用处理器时第一个信号生效", func(t *testing.T) {
		var reported []*rxlite.ContractViolationError
		source := rxlite.CreateSingle(func(emitter rxlite.SingleEmitter) {
			emitter.Success(1)
			emitter.Error(errors.New("second"))
		}, rxlite.WithContractViolationHandler(func(err *rxlite.ContractViolationError) {
			reported = append(reported, err)
		}))

		value, err := singleResult(t, source)
		require.NoError(t, err)
		assert.Equal(t, 1, value)

		require.Len(t, reported, 1)
		assert.ErrorIs(t, reported[0], rxlite.ErrContractViolation)
		assert.Contains(t, reported[0].Error(), "Error called after the single already signalled")
	})
}

func TestSingleBlockingGet(t *testing.T) {
	ctx := context.Background()

	value, err := rxlite.JustSingle(7).BlockingGet(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, value)

	boom := errors.New("boom")
	_, err = rxlite.ErrorSingle(boom).BlockingGet(ctx)
	assert.Same(t, boom, err)

	sched := rxlite.NewRealScheduler()
	defer sched.Close()
	value, err = rxlite.FirstOrError(rxlite.Timer(sched, ms(5))).BlockingGet(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = rxlite.FirstOrError(rxlite.Never()).BlockingGet(timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ============================================================================
// Maybe
// ============================================================================

// maybeResult 同步订阅Maybe，返回值、是否有值与错误
func maybeResult(t *testing.T, m rxlite.Maybe) (interface{}, bool, error) {
	t.Helper()

	var value interface{}
	var hasValue bool
	var err error
	signals := 0
	m.Subscribe(
		func(v interface{}) { value, hasValue = v, true; signals++ },
		func(e error) { err = e; signals++ },
		func() { signals++ },
	)
	require.Equal(t, 1, signals, "maybe must signal exactly once")
	return value, hasValue, err
}

func TestMaybe(t *testing.T) {
	t.Run("有值时不调用onComplete", func(t *testing.T) {
		value, ok, err := maybeResult(t, rxlite.JustMaybe(3))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, value)
	})

	t.Run("空", func(t *testing.T) {
		_, ok, err := maybeResult(t, rxlite.EmptyMaybe())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("失败", func(t *testing.T) {
		boom := errors.New("boom")
		_, ok, err := maybeResult(t, rxlite.ErrorMaybe(boom))
		assert.False(t, ok)
		assert.Same(t, boom, err)
	})

	t.Run("Map与Filter", func(t *testing.T) {
		value, ok, _ := maybeResult(t, rxlite.JustMaybe(2).Map(func(v interface{}) (interface{}, error) {
			return v.(int) * 10, nil
		}))
		assert.True(t, ok)
		assert.Equal(t, 20, value)

		even := func(v interface{}) bool { return v.(int)%2 == 0 }
		_, ok, _ = maybeResult(t, rxlite.JustMaybe(3).Filter(even))
		assert.False(t, ok)
		_, ok, _ = maybeResult(t, rxlite.JustMaybe(4).Filter(even))
		assert.True(t, ok)
	})

	t.Run("CreateMaybe重复调用", func(t *testing.T) {
		reported := 0
		source := rxlite.CreateMaybe(func(emitter rxlite.MaybeEmitter) {
			emitter.Complete()
			emitter.Success(1)
		}, rxlite.WithContractViolationHandler(func(*rxlite.ContractViolationError) {
			reported++
		}))

		_, ok, err := maybeResult(t, source)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, reported)
	})

	t.Run("ToObservable", func(t *testing.T) {
		rec := rxtest.NewUntimedRecorder()
		rxlite.EmptyMaybe().ToObservable().Subscribe(rec.Observer())
		assert.Equal(t, "0s complete\n", rec.Trace())
		assert.Equal(t, rxlite.KindMaybe, rxlite.EmptyMaybe().Kind())
	})

	t.Run("BlockingGet", func(t *testing.T) {
		ctx := context.Background()

		value, ok, err := rxlite.JustMaybe("x").BlockingGet(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "x", value)

		_, ok, err = rxlite.EmptyMaybe().BlockingGet(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
