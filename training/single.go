package training

import (
	"github.com/xinjiayu/rxlite"
)

func addInts(accumulator, value interface{}) interface{} {
	return accumulator.(int) + value.(int)
}

// OnlyOneElement value为正时发射value，否则以ErrExpected失败（0不是正数）
func OnlyOneElement(value int) rxlite.Single {
	return rxlite.CreateSingle(func(emitter rxlite.SingleEmitter) {
		if value <= 0 {
			emitter.Error(ErrExpected)
			return
		}
		emitter.Success(value)
	})
}

// OnlyOneElementOfSequence 序列的第一个元素；序列为空时以ErrEmptySequence失败
func OnlyOneElementOfSequence(source rxlite.Observable) rxlite.Single {
	return rxlite.FirstOrError(source)
}

// CalculateSumOfValues 所有元素之和；序列为空或出错时为0
func CalculateSumOfValues(source rxlite.Observable) rxlite.Single {
	return source.ReduceWith(0, addInts).OnErrorReturnItem(0)
}

// CollectionOfValues 按顺序收集所有元素
func CollectionOfValues(source rxlite.Observable) rxlite.Single {
	return source.ToSlice().Map(func(value interface{}) (interface{}, error) {
		values := value.([]interface{})
		ints := make([]int, len(values))
		for i, v := range values {
			ints[i] = v.(int)
		}
		return ints, nil
	})
}

// AllElementsIsPositive 所有元素都为正时为true，遇到非正元素立即为false
func AllElementsIsPositive(source rxlite.Observable) rxlite.Single {
	return source.All(func(value interface{}) bool {
		return value.(int) > 0
	})
}
