package graph

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

// Path 最短路结果
type Path[E any] struct {
	Edges  []E     // 从起点到终点依次经过的边
	Weight float64 // 累计边权，不可达时为mathutil.INF
}

// Reachable 是否可达
func (p Path[E]) Reachable() bool {
	return p.Weight < mathutil.INF
}

type options[E any] struct {
	filter func(E) bool
	weight func(E) float64
}

// Option 最短路查询选项
type Option[E any] func(*options[E])

// WithEdgeFilter 只允许经过filter返回true的边（例如跳过施工中的道路）
func WithEdgeFilter[E any](filter func(E) bool) Option[E] {
	return func(o *options[E]) {
		o.filter = filter
	}
}

// WithWeight 用weight替代边自身的Weight()作为边权（例如使用实时通行时间）
func WithWeight[E any](weight func(E) float64) Option[E] {
	return func(o *options[E]) {
		o.weight = weight
	}
}

// ShortestPath 单终点最短路
// 功能：计算from到to的最短路径，终点出堆时提前结束
// 参数：g-图，from-起点id，to-终点id，opts-查询选项
// 返回：路径；to不可达时Weight为mathutil.INF且Edges为空；起终点不在图中返回ErrUnknownNode，图结构不一致返回ErrInconsistent
func ShortestPath[NK, EK comparable, N INode[NK], E IEdge[NK, EK]](
	g *Graph[NK, EK, N, E], from, to NK, opts ...Option[E],
) (Path[E], error) {
	if _, ok := g.nodes[to]; !ok {
		return Path[E]{Weight: mathutil.INF}, fmt.Errorf("destination %v: %w", to, ErrUnknownNode)
	}
	s, err := search(g, from, &to, opts)
	if err != nil {
		return Path[E]{Weight: mathutil.INF}, err
	}
	return s.path(to)
}

// ShortestPaths 全终点最短路
// 功能：计算from到图中每个节点的最短路径，堆耗尽后结束
// 返回：节点id->路径，不可达的节点Weight为mathutil.INF且Edges为空
func ShortestPaths[NK, EK comparable, N INode[NK], E IEdge[NK, EK]](
	g *Graph[NK, EK, N, E], from NK, opts ...Option[E],
) (map[NK]Path[E], error) {
	s, err := search(g, from, nil, opts)
	if err != nil {
		return nil, err
	}
	res := make(map[NK]Path[E], len(g.nodes))
	for _, id := range g.order {
		p, err := s.path(id)
		if err != nil {
			return nil, err
		}
		res[id] = p
	}
	return res, nil
}

// searchState Dijkstra的结果：已确定的最短距离与前驱边
type searchState[NK, EK comparable, E IEdge[NK, EK]] struct {
	from   NK
	weight map[NK]float64
	pred   map[NK]E
}

// search Dijkstra主过程
// 算法说明：
// 1. 所有节点以+∞入堆，起点为0
// 2. 反复取出最小节点并冻结其距离；取出的是+∞说明剩余节点均不可达，结束
// 3. 对每条未被过滤的出边，若目标未冻结且候选距离更小，则decrease-key并记录前驱边
// 4. 指定终点时，终点出堆即结束
func search[NK, EK comparable, N INode[NK], E IEdge[NK, EK]](
	g *Graph[NK, EK, N, E], from NK, to *NK, opts []Option[E],
) (*searchState[NK, EK, E], error) {
	if _, ok := g.nodes[from]; !ok {
		return nil, fmt.Errorf("source %v: %w", from, ErrUnknownNode)
	}
	o := options[E]{
		filter: func(E) bool { return true },
		weight: func(e E) float64 { return e.Weight() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := container.NewIndexedMinHeap[float64, NK]()
	for _, id := range g.order {
		key := mathutil.INF
		if id == from {
			key = 0
		}
		if err := h.Insert(key, id); err != nil {
			return nil, fmt.Errorf("node %v: %w", id, ErrInconsistent)
		}
	}
	s := &searchState[NK, EK, E]{
		from:   from,
		weight: make(map[NK]float64),
		pred:   make(map[NK]E),
	}
	for h.Len() > 0 {
		w, u, _ := h.ExtractMin()
		if w >= mathutil.INF {
			break
		}
		s.weight[u] = w
		if to != nil && u == *to {
			break
		}
		for _, e := range g.OutEdges(u) {
			if !o.filter(e) {
				continue
			}
			v := e.To()
			if _, ok := g.nodes[v]; !ok {
				return nil, fmt.Errorf("edge %v targets missing node %v: %w", e.ID(), v, ErrInconsistent)
			}
			if _, frozen := s.weight[v]; frozen {
				continue
			}
			candidate := w + o.weight(e)
			if cur, _ := h.Key(v); candidate < cur {
				if err := h.DecreaseKey(v, candidate); err != nil {
					return nil, fmt.Errorf("relax %v: %w", v, err)
				}
				s.pred[v] = e
			}
		}
	}
	return s, nil
}

// path 由前驱边回溯出路径（逆序收集后反转）
func (s *searchState[NK, EK, E]) path(to NK) (Path[E], error) {
	w, ok := s.weight[to]
	if !ok {
		return Path[E]{Weight: mathutil.INF, Edges: []E{}}, nil
	}
	edges := make([]E, 0)
	for cur := to; cur != s.from; {
		e, ok := s.pred[cur]
		if !ok {
			return Path[E]{Weight: mathutil.INF}, fmt.Errorf("node %v has no predecessor: %w", cur, ErrInconsistent)
		}
		edges = append(edges, e)
		cur = e.From()
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return Path[E]{Edges: edges, Weight: w}, nil
}
