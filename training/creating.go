package training

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xinjiayu/rxlite"
)

// ============================================================================
// 辅助计算
// ============================================================================

// ExpensiveMethod 长时间计算
func ExpensiveMethod() int {
	return math.MaxInt32
}

// AlternativeExpensiveMethod 另一个长时间计算
func AlternativeExpensiveMethod() int {
	return math.MaxInt32
}

// UnstableMethod unstableCondition为true时返回ErrExpected
func UnstableMethod(unstableCondition bool) (int, error) {
	if unstableCondition {
		return 0, ErrExpected
	}
	return math.MaxInt32, nil
}

// ============================================================================
// 创建类训练题
// ============================================================================

// Creating 创建类训练题。计算函数可替换，便于在测试中计数
type Creating struct {
	Scheduler   rxlite.Scheduler
	Expensive   func() int
	Alternative func() int
	Unstable    func(unstableCondition bool) (int, error)
}

// NewCreating 使用默认计算函数创建
func NewCreating(scheduler rxlite.Scheduler) *Creating {
	return &Creating{
		Scheduler:   scheduler,
		Expensive:   ExpensiveMethod,
		Alternative: AlternativeExpensiveMethod,
		Unstable:    UnstableMethod,
	}
}

// ValueToObservable 只发射value
func (c *Creating) ValueToObservable(value int) rxlite.Observable {
	return rxlite.Just(value)
}

// ArrayToObservable 按顺序发射数组中的字符串
func (c *Creating) ArrayToObservable(array []string) rxlite.Observable {
	values := make([]interface{}, len(array))
	for i, s := range array {
		values[i] = s
	}
	return rxlite.FromSlice(values)
}

// ExpensiveMethodResult 发射Expensive的结果；只在订阅时计算，每次订阅计算一次
func (c *Creating) ExpensiveMethodResult() rxlite.Observable {
	return rxlite.Defer(func() rxlite.Observable {
		return rxlite.Just(c.Expensive())
	})
}

// IncreasingSequenceWithDelays 从0开始的递增序列，首个值在initialDelay后，
// 之后每隔period一个，直到取消订阅；不会完成或出错
func (c *Creating) IncreasingSequenceWithDelays(initialDelay, period time.Duration) rxlite.Observable {
	return rxlite.Interval(c.Scheduler, initialDelay, period)
}

// DelayedZero 在delay后只发射int64(0)
func (c *Creating) DelayedZero(delay time.Duration) rxlite.Observable {
	return rxlite.Timer(c.Scheduler, delay)
}

// IncreasingSequenceFrom 从offset开始的递增序列，由Interval加映射组合而成
func (c *Creating) IncreasingSequenceFrom(offset int64, initialDelay, period time.Duration) rxlite.Observable {
	return rxlite.Interval(c.Scheduler, initialDelay, period).Map(func(value interface{}) (interface{}, error) {
		return value.(int64) + offset, nil
	})
}

// CombinationExpensiveMethods 依次发射 Expensive、Alternative、Unstable 的结果。
// Unstable失败时以它的错误终止
func (c *Creating) CombinationExpensiveMethods(unstableCondition bool) rxlite.Observable {
	return rxlite.Concat(
		rxlite.Defer(func() rxlite.Observable { return rxlite.Just(c.Expensive()) }),
		rxlite.Defer(func() rxlite.Observable { return rxlite.Just(c.Alternative()) }),
		rxlite.Defer(func() rxlite.Observable {
			value, err := c.Unstable(unstableCondition)
			if err != nil {
				return rxlite.Error(err)
			}
			return rxlite.Just(value)
		}),
	)
}

// WithoutAnyEvents 不发射值，也不完成或出错
func (c *Creating) WithoutAnyEvents() rxlite.Observable {
	return rxlite.Never()
}

// OnlyComplete 只完成
func (c *Creating) OnlyComplete() rxlite.Observable {
	return rxlite.Empty()
}

// OnlyError 只以ErrExpected终止
func (c *Creating) OnlyError() rxlite.Observable {
	return rxlite.Error(ErrExpected)
}

// ============================================================================
// 按名称查找
// ============================================================================

// drills 无参数训练题
func (c *Creating) drills() map[string]func() rxlite.Observable {
	return map[string]func() rxlite.Observable{
		"expensive-method-result":       c.ExpensiveMethodResult,
		"combination-expensive-methods": func() rxlite.Observable { return c.CombinationExpensiveMethods(false) },
		"unstable-expensive-methods":    func() rxlite.Observable { return c.CombinationExpensiveMethods(true) },
		"without-any-events":            c.WithoutAnyEvents,
		"only-complete":                 c.OnlyComplete,
		"only-error":                    c.OnlyError,
		"delayed-zero":                  func() rxlite.Observable { return c.DelayedZero(100 * time.Millisecond) },
		"increasing-sequence": func() rxlite.Observable {
			return c.IncreasingSequenceWithDelays(50*time.Millisecond, 50*time.Millisecond).Take(5)
		},
	}
}

// Lookup 按名称返回无参数训练题；未知名称返回以ErrNotImplemented终止的序列
func (c *Creating) Lookup(name string) rxlite.Observable {
	if drill, ok := c.drills()[name]; ok {
		return drill()
	}
	return rxlite.Error(fmt.Errorf("%w: drill %q", ErrNotImplemented, name))
}

// DrillNames 可按名称运行的训练题
func (c *Creating) DrillNames() []string {
	names := make([]string, 0)
	for name := range c.drills() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
