package training

import (
	"github.com/xinjiayu/rxlite"
)

// PositiveOrEmpty value不为负时发射value，为负时为空
func PositiveOrEmpty(value int) rxlite.Maybe {
	return rxlite.CreateMaybe(func(emitter rxlite.MaybeEmitter) {
		if value < 0 {
			emitter.Complete()
			return
		}
		emitter.Success(value)
	})
}

// PositiveOrEmptySingle Single发射正数时发射该值，否则为空
func PositiveOrEmptySingle(value rxlite.Single) rxlite.Maybe {
	return rxlite.FilterSingle(value, func(v interface{}) bool {
		return v.(int) > 0
	})
}

// MaybeSumOfValues 所有元素之和；序列为空时发射0
func MaybeSumOfValues(source rxlite.Observable) rxlite.Maybe {
	return rxlite.SingleToMaybe(source.ReduceWith(0, addInts))
}

// LeastOneElement Maybe的值；Maybe为空时为defaultValue
func LeastOneElement(value rxlite.Maybe, defaultValue int) rxlite.Single {
	return rxlite.DefaultIfEmpty(value, defaultValue)
}
