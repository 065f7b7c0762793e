package graph

import (
	"fmt"

	"github.com/samber/lo"
)

// INode 图节点接口
type INode[NK comparable] interface {
	ID() NK
}

// IEdge 图的有向边接口
// 说明：边只保存端点id，端点通过图解析，图不持有节点与边之间的互相引用
type IEdge[NK, EK comparable] interface {
	ID() EK
	From() NK
	To() NK
	Weight() float64 // 边权，必须非负
}

// incidence 节点的关联边，按加入顺序保存边id
type incidence[EK comparable] struct {
	in  []EK
	out []EK
}

// Graph 泛型有向图
// 功能：以id为键保存节点与边，维护每个节点的入边/出边列表，保证任何时刻边的两个端点都在图中
// 说明：
// 1. 节点与边的id在图内唯一
// 2. 关联边列表与节点列表均按加入顺序排列，使遍历（以及最短路的平局处理）可复现
// 3. 非并发安全，由调用方保证单线程修改
type Graph[NK, EK comparable, N INode[NK], E IEdge[NK, EK]] struct {
	nodes    map[NK]N
	edges    map[EK]E
	incident map[NK]*incidence[EK]
	order    []NK // 节点加入顺序
}

// New 创建空图
func New[NK, EK comparable, N INode[NK], E IEdge[NK, EK]]() *Graph[NK, EK, N, E] {
	return &Graph[NK, EK, N, E]{
		nodes:    make(map[NK]N),
		edges:    make(map[EK]E),
		incident: make(map[NK]*incidence[EK]),
		order:    make([]NK, 0),
	}
}

// NodeCount 节点数量
func (g *Graph[NK, EK, N, E]) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount 边数量
func (g *Graph[NK, EK, N, E]) EdgeCount() int {
	return len(g.edges)
}

// AddNode 添加节点
// 返回：id已存在时返回false且不修改图
func (g *Graph[NK, EK, N, E]) AddNode(node N) bool {
	id := node.ID()
	if _, ok := g.nodes[id]; ok {
		return false
	}
	g.nodes[id] = node
	g.incident[id] = &incidence[EK]{}
	g.order = append(g.order, id)
	return true
}

// AddEdge 添加边
// 返回：边id已存在或任一端点不在图中时返回false且不修改图
func (g *Graph[NK, EK, N, E]) AddEdge(edge E) bool {
	id := edge.ID()
	if _, ok := g.edges[id]; ok {
		return false
	}
	from, ok := g.incident[edge.From()]
	if !ok {
		return false
	}
	to, ok := g.incident[edge.To()]
	if !ok {
		return false
	}
	g.edges[id] = edge
	from.out = append(from.out, id)
	to.in = append(to.in, id)
	return true
}

// RemoveNode 删除节点
// 返回：节点不存在或仍有关联边时返回false
func (g *Graph[NK, EK, N, E]) RemoveNode(id NK) bool {
	inc, ok := g.incident[id]
	if !ok || len(inc.in) > 0 || len(inc.out) > 0 {
		return false
	}
	g.removeNode(id)
	return true
}

// ForceRemoveNode 强制删除节点
// 功能：先删除节点的全部关联边（出边在前，入边在后，自环只删除一次），再删除节点
// 返回：被删除的边，节点不存在时返回false
func (g *Graph[NK, EK, N, E]) ForceRemoveNode(id NK) ([]E, bool) {
	inc, ok := g.incident[id]
	if !ok {
		return nil, false
	}
	ids := lo.Uniq(append(append([]EK{}, inc.out...), inc.in...))
	removed := make([]E, 0, len(ids))
	for _, eid := range ids {
		if e, ok := g.RemoveEdge(eid); ok {
			removed = append(removed, e)
		}
	}
	g.removeNode(id)
	return removed, true
}

func (g *Graph[NK, EK, N, E]) removeNode(id NK) {
	delete(g.nodes, id)
	delete(g.incident, id)
	g.order = lo.Without(g.order, id)
}

// RemoveEdge 删除边
// 功能：先从两个端点的关联边列表中摘除，再从图中删除
// 返回：被删除的边，边不存在时返回false
func (g *Graph[NK, EK, N, E]) RemoveEdge(id EK) (E, bool) {
	edge, ok := g.edges[id]
	if !ok {
		return edge, false
	}
	if from, ok := g.incident[edge.From()]; ok {
		from.out = lo.Without(from.out, id)
	}
	if to, ok := g.incident[edge.To()]; ok {
		to.in = lo.Without(to.in, id)
	}
	delete(g.edges, id)
	return edge, true
}

// Node 按id获取节点
func (g *Graph[NK, EK, N, E]) Node(id NK) (N, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeOrError 按id获取节点，不存在时返回ErrNotFound
func (g *Graph[NK, EK, N, E]) NodeOrError(id NK) (N, error) {
	n, ok := g.nodes[id]
	if !ok {
		return n, fmt.Errorf("node %v: %w", id, ErrNotFound)
	}
	return n, nil
}

// Edge 按id获取边
func (g *Graph[NK, EK, N, E]) Edge(id EK) (E, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// EdgeOrError 按id获取边，不存在时返回ErrNotFound
func (g *Graph[NK, EK, N, E]) EdgeOrError(id EK) (E, error) {
	e, ok := g.edges[id]
	if !ok {
		return e, fmt.Errorf("edge %v: %w", id, ErrNotFound)
	}
	return e, nil
}

// Nodes 按加入顺序返回所有节点
func (g *Graph[NK, EK, N, E]) Nodes() []N {
	return lo.Map(g.order, func(id NK, _ int) N { return g.nodes[id] })
}

// Edges 按起点的加入顺序、再按出边加入顺序返回所有边
func (g *Graph[NK, EK, N, E]) Edges() []E {
	res := make([]E, 0, len(g.edges))
	for _, id := range g.order {
		for _, eid := range g.incident[id].out {
			res = append(res, g.edges[eid])
		}
	}
	return res
}

// OutEdges 节点的出边，节点不存在时返回nil
func (g *Graph[NK, EK, N, E]) OutEdges(id NK) []E {
	inc, ok := g.incident[id]
	if !ok {
		return nil
	}
	return g.resolve(inc.out)
}

// InEdges 节点的入边，节点不存在时返回nil
func (g *Graph[NK, EK, N, E]) InEdges(id NK) []E {
	inc, ok := g.incident[id]
	if !ok {
		return nil
	}
	return g.resolve(inc.in)
}

func (g *Graph[NK, EK, N, E]) resolve(ids []EK) []E {
	return lo.Map(ids, func(id EK, _ int) E { return g.edges[id] })
}
