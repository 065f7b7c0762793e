package graph

// Navigation 路径游标
// 功能：持有一份路径边序列，车辆逐条消费
// 说明：只能单向前进一次，走完后不能重置，需要新路线时应重新构造
type Navigation[E any] struct {
	edges []E
	index int
}

// NewNavigation 由路径边序列构造导航，序列为空时返回ErrNoRoute
func NewNavigation[E any](edges []E) (*Navigation[E], error) {
	if len(edges) == 0 {
		return nil, ErrNoRoute
	}
	return &Navigation[E]{edges: append([]E(nil), edges...)}, nil
}

// Current 当前所在的边
func (n *Navigation[E]) Current() E {
	return n.edges[n.index]
}

// Next 下一条边，当前已是最后一条时ok为false
func (n *Navigation[E]) Next() (e E, ok bool) {
	if n.index+1 >= len(n.edges) {
		return
	}
	return n.edges[n.index+1], true
}

// Advance 前进到下一条边，已是最后一条时返回ErrExhausted且游标不变
func (n *Navigation[E]) Advance() error {
	if n.index+1 >= len(n.edges) {
		return ErrExhausted
	}
	n.index++
	return nil
}

// Remaining 从当前边（含）开始剩余的边
func (n *Navigation[E]) Remaining() []E {
	return n.edges[n.index:]
}
