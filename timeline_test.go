package rxlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	base := time.Unix(0, 0)
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

	t.Run("popDue按(时间,序号)出队", func(t *testing.T) {
		tl := &timeline{}
		var order []string
		tl.push(at(20), 0, func() { order = append(order, "b") })
		tl.push(at(10), 0, func() { order = append(order, "a") })
		tl.push(at(20), 0, func() { order = append(order, "c") })

		next, ok := tl.peek()
		require.True(t, ok)
		assert.Equal(t, at(10), next)

		for {
			task, ok := tl.popDue(at(20))
			if !ok {
				break
			}
			task.action()
		}
		assert.Equal(t, []string{"a", "b", "c"}, order)
		assert.Equal(t, 0, tl.pending())
	})

	t.Run("未到期的任务留在队列中", func(t *testing.T) {
		tl := &timeline{}
		tl.push(at(30), 0, func() {})

		_, ok := tl.popDue(at(29))
		assert.False(t, ok)
		assert.Equal(t, 1, tl.pending())
	})

	t.Run("取消从堆中移除", func(t *testing.T) {
		tl := &timeline{}
		first := tl.push(at(10), 0, func() {})
		tl.push(at(20), 0, func() {})

		first.Cancel()
		assert.Equal(t, 1, tl.pending())
		assert.Len(t, tl.tasks, 1)

		next, ok := tl.peek()
		require.True(t, ok)
		assert.Equal(t, at(20), next)
	})

	t.Run("周期任务重新入队", func(t *testing.T) {
		tl := &timeline{}
		tl.push(at(10), 15*time.Millisecond, func() {})

		task, ok := tl.popDue(at(10))
		require.True(t, ok)
		tl.reschedule(task)

		next, ok := tl.peek()
		require.True(t, ok)
		assert.Equal(t, at(25), next)
	})

	t.Run("入队通知", func(t *testing.T) {
		pushes := 0
		tl := &timeline{onPush: func() { pushes++ }}
		tl.push(at(1), 0, func() {})
		tl.push(at(2), 0, func() {})
		assert.Equal(t, 2, pushes)
	})

	t.Run("关闭后入队的任务即被取消", func(t *testing.T) {
		tl := &timeline{}
		tl.push(at(10), 0, func() {})
		tl.close()
		assert.Equal(t, 0, tl.pending())

		handle := tl.push(at(5), 0, func() {})
		handle.Cancel()
		assert.Equal(t, 0, tl.pending())

		_, ok := tl.peek()
		assert.False(t, ok)
	})
}

func TestContractViolationOnSingleWithoutValue(t *testing.T) {
	var reported []*ContractViolationError
	config := newConfig([]Option{WithContractViolationHandler(func(err *ContractViolationError) {
		reported = append(reported, err)
	})})

	single := Single{s: newStream(KindSingle, func(e *Emitter) {
		e.Complete()
	}, config)}

	var got error
	single.Subscribe(func(interface{}) {
		t.Error("unexpected success")
	}, func(err error) {
		got = err
	})

	require.Len(t, reported, 1)
	assert.ErrorIs(t, got, ErrContractViolation)
	assert.Equal(t, "single", reported[0].Op)
}
