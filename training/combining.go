package training

import (
	"github.com/xinjiayu/rxlite"
)

// SearchFunc 外部查找：按搜索串与类别返回有序结果
type SearchFunc func(query string, categoryID int) []string

// DefaultSearch 查找的占位实现，无论输入如何都返回空结果
func DefaultSearch(query string, categoryID int) []string {
	return []string{}
}

// Combining 组合类训练题
type Combining struct {
	Search SearchFunc
}

// NewCombining 使用DefaultSearch创建
func NewCombining() *Combining {
	return &Combining{Search: DefaultSearch}
}

// Summation 第i个输出是两个序列第i个元素之和；任一序列终止时结果也终止
func (c *Combining) Summation(a, b rxlite.Observable) rxlite.Observable {
	return a.ZipWith(b, func(x, y interface{}) interface{} {
		return x.(int) + y.(int)
	})
}

// RequestItems 搜索串或类别变化时，用二者的最新值执行查找
func (c *Combining) RequestItems(search, category rxlite.Observable) rxlite.Observable {
	lookup := c.Search
	if lookup == nil {
		lookup = DefaultSearch
	}
	return search.CombineLatestWith(category, func(query, categoryID interface{}) interface{} {
		return lookup(query.(string), categoryID.(int))
	})
}

// Composition 把两个序列当作一个处理
func (c *Combining) Composition(a, b rxlite.Observable) rxlite.Observable {
	return rxlite.Merge(a, b)
}

// AdditionalFirstItem 先发射firstItem，再发射source的所有元素
func (c *Combining) AdditionalFirstItem(firstItem int, source rxlite.Observable) rxlite.Observable {
	return rxlite.Just(firstItem).MergeWith(source)
}
