package roadnet

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/road"
	"github.com/tsinghua-fib-lab/roadnet-sim/graph"
)

// RoadConfig 加入道路的参数
type RoadConfig struct {
	ID     int32
	From   int32 // 起点路口
	To     int32 // 终点路口
	Length float64
	MaxV   float64
	Lanes  int
}

type roadGraph = graph.Graph[int32, int32, *crossroad.Crossroad, *road.Road]

// RoadNet 路网
// 功能：持有以路口为节点、道路为边的有向图，提供地图构建（增删路口与道路）、查找与路径规划
// 说明：
// 1. 加入道路时不存在的端点路口会被自动创建并记为隐式路口，删除道路后隐式路口若不再有关联道路则一并删除
// 2. 路口的驶入/驶出道路只包括通车道路，道路增删或通车状态变化时更新
type RoadNet struct {
	ctx entity.ITaskContext

	g        *roadGraph
	implicit map[int32]struct{} // 由AddRoad自动创建的路口
}

// New 创建空路网
func New(ctx entity.ITaskContext) *RoadNet {
	return &RoadNet{
		ctx:      ctx,
		g:        graph.New[int32, int32, *crossroad.Crossroad, *road.Road](),
		implicit: make(map[int32]struct{}),
	}
}

// NodeCount 路口数
func (n *RoadNet) NodeCount() int {
	return n.g.NodeCount()
}

// EdgeCount 道路数
func (n *RoadNet) EdgeCount() int {
	return n.g.EdgeCount()
}

// AddCrossroad 加入路口，id已存在时返回false
// 说明：显式加入一个已被隐式创建的路口会使其转为显式路口
func (n *RoadNet) AddCrossroad(id int32) bool {
	if _, ok := n.implicit[id]; ok {
		delete(n.implicit, id)
		return true
	}
	return n.g.AddNode(crossroad.New(id))
}

// RemoveCrossroad 删除路口
// 参数：force-为true时先删除全部关联道路
// 返回：被删除的道路id；路口不存在、（非强制时）仍有关联道路或（强制时）关联道路上仍有车辆时返回false
func (n *RoadNet) RemoveCrossroad(id int32, force bool) ([]int32, bool) {
	if !force {
		if !n.g.RemoveNode(id) {
			return nil, false
		}
		delete(n.implicit, id)
		return []int32{}, true
	}
	if lo.SomeBy(n.g.InEdges(id), busy) || lo.SomeBy(n.g.OutEdges(id), busy) {
		log.Debugf("crossroad %d has roads with vehicles", id)
		return nil, false
	}
	removed, ok := n.g.ForceRemoveNode(id)
	if !ok {
		return nil, false
	}
	delete(n.implicit, id)
	for _, r := range removed {
		r.SetConnected(false)
	}
	for _, r := range removed {
		n.refreshCrossroad(r.From())
		n.refreshCrossroad(r.To())
	}
	return lo.Map(removed, func(r *road.Road, _ int) int32 { return r.ID() }), true
}

// AddRoad 加入道路
// 返回：参数不合法（车道数不在[1,3]、长度或限速非正）或道路id已存在时返回false且路网不变
func (n *RoadNet) AddRoad(c RoadConfig) bool {
	if c.Lanes < 1 || c.Lanes > road.MaxLanes || c.Length <= 0 || c.MaxV <= 0 {
		log.Debugf("reject road %+v", c)
		return false
	}
	if _, ok := n.g.Edge(c.ID); ok {
		return false
	}
	if err := n.checkJoin(c.ID, c.From, c.To); err != nil {
		log.Debugf("reject road %+v: %v", c, err)
		return false
	}
	created := make([]int32, 0, 2)
	for _, id := range []int32{c.From, c.To} {
		if n.g.AddNode(crossroad.New(id)) {
			n.implicit[id] = struct{}{}
			created = append(created, id)
		}
	}
	if !n.g.AddEdge(road.New(n.ctx, c.ID, c.From, c.To, c.Length, c.MaxV, c.Lanes)) {
		for _, id := range created {
			n.g.RemoveNode(id)
			delete(n.implicit, id)
		}
		return false
	}
	n.refreshCrossroad(c.From)
	n.refreshCrossroad(c.To)
	return true
}

// RemoveRoad 删除道路，不再有关联道路的隐式端点路口一并删除
// 返回：道路不存在或道路上仍有车辆时返回false
// 说明：被删除的道路置为不通车，仍以它为下一条道路的主动导航车辆会在路口前重新规划
func (n *RoadNet) RemoveRoad(id int32) bool {
	r, ok := n.g.Edge(id)
	if !ok || busy(r) {
		return false
	}
	r.SetConnected(false)
	n.g.RemoveEdge(id)
	for _, c := range lo.Uniq([]int32{r.From(), r.To()}) {
		if _, ok := n.implicit[c]; ok && n.g.RemoveNode(c) {
			delete(n.implicit, c)
			continue
		}
		n.refreshCrossroad(c)
	}
	return true
}

// SetRoadConnected 设置道路是否通车
// 返回：道路不存在，或恢复通车会使端点的信号灯路口出现没有相位放行的转向时返回false
func (n *RoadNet) SetRoadConnected(id int32, connected bool) bool {
	r, ok := n.g.Edge(id)
	if !ok {
		return false
	}
	if connected && !r.Connected() {
		if err := n.checkJoin(id, r.From(), r.To()); err != nil {
			log.Debugf("keep road %d closed: %v", id, err)
			return false
		}
	}
	r.SetConnected(connected)
	n.refreshCrossroad(r.From())
	n.refreshCrossroad(r.To())
	return true
}

func busy(r *road.Road) bool {
	return r.VehicleCount() > 0
}

// connectedRoads 路口的通车驶入/驶出道路
func (n *RoadNet) connectedRoads(id int32) (in, out []int32) {
	ids := func(roads []*road.Road) []int32 {
		return lo.FilterMap(roads, func(r *road.Road, _ int) (int32, bool) { return r.ID(), r.Connected() })
	}
	return ids(n.g.InEdges(id)), ids(n.g.OutEdges(id))
}

// checkJoin 检查通车道路id（from->to）接入后两端已存在的路口是否仍然有效
func (n *RoadNet) checkJoin(id, from, to int32) error {
	for _, cid := range lo.Uniq([]int32{from, to}) {
		c, ok := n.g.Node(cid)
		if !ok {
			continue
		}
		in, out := n.connectedRoads(cid)
		if cid == to {
			in = append(in, id)
		}
		if cid == from {
			out = append(out, id)
		}
		if err := c.CheckRoads(in, out); err != nil {
			return err
		}
	}
	return nil
}

// refreshCrossroad 以通车道路重新设置路口的驶入/驶出道路
func (n *RoadNet) refreshCrossroad(id int32) {
	c, ok := n.g.Node(id)
	if !ok {
		return
	}
	c.SetRoads(n.connectedRoads(id))
}

// Crossroad 根据ID获取路口，不存在则panic
func (n *RoadNet) Crossroad(id int32) entity.ICrossroad {
	return n.GetCrossroad(id)
}

// GetCrossroad 根据ID获取路口实体，不存在则panic
func (n *RoadNet) GetCrossroad(id int32) *crossroad.Crossroad {
	c, ok := n.g.Node(id)
	if !ok {
		log.Panicf("no id %d in crossroad data", id)
	}
	return c
}

// GetCrossroadOrError 根据ID获取路口实体，不存在则返回包装了graph.ErrNotFound的错误
func (n *RoadNet) GetCrossroadOrError(id int32) (*crossroad.Crossroad, error) {
	return n.g.NodeOrError(id)
}

// Road 根据ID获取道路，不存在则panic
func (n *RoadNet) Road(id int32) entity.IRoad {
	return n.GetRoad(id)
}

// GetRoad 根据ID获取道路实体，不存在则panic
func (n *RoadNet) GetRoad(id int32) *road.Road {
	r, ok := n.g.Edge(id)
	if !ok {
		log.Panicf("no id %d in road data", id)
	}
	return r
}

// GetRoadOrError 根据ID获取道路实体，不存在则返回包装了graph.ErrNotFound的错误
func (n *RoadNet) GetRoadOrError(id int32) (*road.Road, error) {
	return n.g.EdgeOrError(id)
}

// Crossroads 全部路口（按加入顺序）
func (n *RoadNet) Crossroads() []*crossroad.Crossroad {
	return n.g.Nodes()
}

// Roads 全部道路
func (n *RoadNet) Roads() []*road.Road {
	return n.g.Edges()
}

// IsImplicit 路口是否由AddRoad自动创建
func (n *RoadNet) IsImplicit(id int32) bool {
	_, ok := n.implicit[id]
	return ok
}

func connectedOnly(r *road.Road) bool {
	return r.Connected()
}

// ShortestPath 只经过通车道路的最短路，边权为自由流通行时间
func (n *RoadNet) ShortestPath(from, to int32) (graph.Path[*road.Road], error) {
	return graph.ShortestPath(n.g, from, to, graph.WithEdgeFilter(connectedOnly))
}

// Route 规划路线（自由流通行时间）
// 返回：不可达时返回graph.ErrNoRoute；from==to时返回空路线
func (n *RoadNet) Route(from, to int32) ([]entity.IRoad, error) {
	return n.route(from, to, graph.WithEdgeFilter(connectedOnly))
}

// LiveRoute 规划路线（平均通行时间）
func (n *RoadNet) LiveRoute(from, to int32) ([]entity.IRoad, error) {
	return n.route(from, to,
		graph.WithEdgeFilter(connectedOnly),
		graph.WithWeight(func(r *road.Road) float64 { return r.AvgDuration() }),
	)
}

func (n *RoadNet) route(from, to int32, opts ...graph.Option[*road.Road]) ([]entity.IRoad, error) {
	p, err := graph.ShortestPath(n.g, from, to, opts...)
	if err != nil {
		if errors.Is(err, graph.ErrInconsistent) {
			log.Panicf("road net is inconsistent: %v", err)
		}
		return nil, err
	}
	if !p.Reachable() {
		return nil, fmt.Errorf("%d->%d: %w", from, to, graph.ErrNoRoute)
	}
	return lo.Map(p.Edges, func(r *road.Road, _ int) entity.IRoad { return r }), nil
}

// Init 初始化全部路口（确定控制方式并校验）
// 返回：所有不合法路口的错误合并
func (n *RoadNet) Init() error {
	errs := make([]error, 0)
	for _, c := range n.g.Nodes() {
		if err := c.Initialize(n.ctx.RuntimeConfig().Rule); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
