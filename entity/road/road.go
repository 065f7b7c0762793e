package road

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
)

// MaxLanes 道路最大车道数
const MaxLanes = 3

// Road 道路实体
// 功能：路网中的有向边，包含1~MaxLanes条互不换道的车道，负责车辆跟驰、过路口交接与通行时间统计
// 说明：边权（自由流通行时间）= 长度/限速，长度或限速变化时重新计算
type Road struct {
	ctx entity.ITaskContext

	id   int32
	from int32 // 起点路口
	to   int32 // 终点路口

	length    float64
	maxV      float64
	weight    float64
	connected bool // false表示施工中，车辆不能驶入，路径规划也不会经过

	lanes []*lane

	stats *statistics
}

// New 创建道路
// 参数：ctx-任务上下文，id-道路id，from/to-起终点路口id，length-长度，maxV-限速，lanes-车道数
// 说明：参数合法性由路网在加入道路前检查
func New(ctx entity.ITaskContext, id, from, to int32, length, maxV float64, lanes int) *Road {
	r := &Road{
		ctx:       ctx,
		id:        id,
		from:      from,
		to:        to,
		length:    length,
		maxV:      maxV,
		connected: true,
		lanes:     make([]*lane, lanes),
	}
	for i := range r.lanes {
		r.lanes[i] = newLane()
	}
	r.updateWeight()
	stats := ctx.RuntimeConfig().Stats
	r.stats = newStatistics(stats.Window, stats.TimeConstant, r.weight)
	return r
}

func (r *Road) String() string {
	return fmt.Sprintf("Road{id=%d, %d->%d, length=%v, maxV=%v, lanes=%d}", r.id, r.from, r.to, r.length, r.maxV, len(r.lanes))
}

func (r *Road) ID() int32 {
	return r.id
}

func (r *Road) From() int32 {
	return r.from
}

func (r *Road) To() int32 {
	return r.to
}

func (r *Road) Length() float64 {
	return r.length
}

func (r *Road) MaxV() float64 {
	return r.maxV
}

func (r *Road) Weight() float64 {
	return r.weight
}

func (r *Road) Connected() bool {
	return r.connected
}

// SetLength 修改长度并重新计算边权
func (r *Road) SetLength(length float64) {
	r.length = length
	r.updateWeight()
}

// SetMaxV 修改限速并重新计算边权
func (r *Road) SetMaxV(maxV float64) {
	r.maxV = maxV
	r.updateWeight()
}

// SetConnected 设置是否通车
func (r *Road) SetConnected(connected bool) {
	r.connected = connected
}

func (r *Road) updateWeight() {
	r.weight = r.length / r.maxV
}

// LaneCount 车道数
func (r *Road) LaneCount() int {
	return len(r.lanes)
}

// LaneCars 第i条车道上的车辆，从队首（靠近终点）到队尾
func (r *Road) LaneCars(i int) []entity.ICar {
	return r.lanes[i].cars.Values()
}

// VehicleCount 道路上的车辆数
func (r *Road) VehicleCount() int {
	return lo.SumBy(r.lanes, func(l *lane) int { return l.cars.Len() })
}

// TryGetOn 车辆在当前时刻驶入道路
func (r *Road) TryGetOn(car entity.ICar) bool {
	lane, ok := r.Accept(car)
	if ok {
		r.Continue(car, lane, r.ctx.Clock().T, 0)
	}
	return ok
}

// Accept 把车辆放到道路入口
// 功能：选择入口处可用空间最大的车道，车头置于道路起点；驶入时刻由随后的Continue记录
// 返回：所在车道；道路未通车或可用空间小于车长时返回false，车辆状态不变
func (r *Road) Accept(car entity.ICar) (int, bool) {
	if !r.connected {
		return 0, false
	}
	minGap := r.ctx.RuntimeConfig().Rule.MinGap
	best, space := 0, r.lanes[0].freeSpace(r.length, minGap)
	for i, l := range r.lanes[1:] {
		if s := l.freeSpace(r.length, minGap); s > space {
			best, space = i+1, s
		}
	}
	if space < car.Length() {
		return 0, false
	}
	car.SetS(0)
	r.lanes[best].cars.PushBack(car)
	return best, true
}

// Continue 记录刚放到lane车道入口的车辆在时刻t驶入，并用剩余时间dt继续行驶
func (r *Road) Continue(car entity.ICar, lane int, t, dt float64) {
	l := r.lanes[lane]
	pos := l.cars.Len() - 1
	if pos < 0 || l.cars.At(pos) != car {
		log.Panicf("road %d: car %d is not at the tail of lane %d", r.id, car.ID(), lane)
	}
	r.stats.arrive(car.ID(), t)
	r.ctx.Statistics().CarEnteredRoad(car.ID(), r.id, t)
	if dt > 0 {
		r.move(l, pos, car, t, dt)
	}
}

// Prepare 记录各车道在本步开始前的车辆顺序，须在任何道路更新前对所有道路调用
func (r *Road) Prepare() {
	for _, l := range r.lanes {
		l.prepare()
	}
}

// Update 推进一步：每条车道按快照从队首到队尾依次移动车辆
// 说明：驶出的车辆总是位于队首，因此快照中下一辆车在车道中的位置等于已处理且仍留在车道中的车辆数
func (r *Road) Update(dt float64) {
	t := r.ctx.Clock().T
	for i, l := range r.lanes {
		stay := 0
		for _, car := range l.snapshot {
			if l.cars.Len() <= stay || l.cars.At(stay) != car {
				log.Panicf("road %d lane %d: car %d moved outside of its road update", r.id, i, car.ID())
			}
			if !r.move(l, stay, car, t, dt) {
				stay++
			}
		}
	}
}

// move 移动车道l中位于pos的车辆
// 参数：t-本段行驶的起始时刻，dt-可用时间
// 返回：车辆是否离开了该车道
// 算法说明：
// 1. 最大行驶距离为dt*限速
// 2. 有前车时不超过前车车尾减去最小间距的位置
// 3. 无前车时可以行驶到道路终点；到达终点后：
//   - 路线已走完：离开车道并完成行程
//   - 下一条道路停止通车时先重新规划（仅主动导航车辆）
//   - 否则询问终点路口能否通过，能通过且下一条道路有空间时，离开本车道、驶入下一条道路，并用剩余时间继续行驶
//   - 不能通过时停在道路终点等待下一步
func (r *Road) move(l *lane, pos int, car entity.ICar, t, dt float64) bool {
	budget := dt * r.maxV
	if leader, ok := l.leader(pos); ok {
		gap := leader.S() - leader.Length() - r.ctx.RuntimeConfig().Rule.MinGap - car.S()
		d := max(min(budget, gap), 0)
		car.SetS(car.S() + d)
		car.SetV(d / dt)
		return false
	}
	toEnd := r.length - car.S()
	if budget < toEnd {
		car.SetS(car.S() + budget)
		car.SetV(r.maxV)
		return false
	}
	expected := toEnd / r.maxV
	if next, ok := car.NextRoad(); ok && !next.Connected() {
		// 下一条道路停止通车，主动导航车辆在路口前重新规划
		r.ctx.CarManager().Reroute(car)
	}
	next, ok := car.NextRoad()
	if !ok {
		l.cars.PopFront()
		car.SetS(r.length)
		car.SetV(toEnd / dt)
		r.depart(car, t+expected)
		r.ctx.CarManager().Finish(car, t+expected)
		return true
	}
	crossroad := r.ctx.RoadNet().Crossroad(r.to)
	if !crossroad.CanCross(car, r.id, next.ID(), expected) {
		r.stop(car, toEnd, dt)
		return false
	}
	// 先离开本车道再驶入下一条道路，下一条道路可能就是本道路（自环）
	l.cars.PopFront()
	tCross := t + expected
	laneIndex, ok := next.Accept(car)
	if !ok {
		l.cars.PushFront(car)
		r.stop(car, toEnd, dt)
		return false
	}
	crossroad.Crossed(car, r.id, next.ID())
	r.depart(car, tCross)
	if err := car.Advance(); err != nil {
		log.Panicf("road %d: car %d advance: %v", r.id, car.ID(), err)
	}
	r.ctx.CarManager().Reroute(car)
	car.SetV(next.MaxV())
	next.Continue(car, laneIndex, tCross, dt-expected)
	return true
}

// stop 车辆行驶到道路终点并停下
func (r *Road) stop(car entity.ICar, toEnd, dt float64) {
	car.SetS(r.length)
	car.SetV(toEnd / dt)
}

// depart 记录车辆在时刻t离开道路
func (r *Road) depart(car entity.ICar, t float64) {
	r.stats.depart(car.ID(), t)
	r.ctx.Statistics().CarLeftRoad(car.ID(), r.id, t)
}

// AvgDuration 平滑后的平均通行时间
func (r *Road) AvgDuration() float64 {
	return r.stats.avgDuration
}

// AvgSpeed 平均速度 = 长度/平均通行时间
func (r *Road) AvgSpeed() float64 {
	return r.length / r.stats.avgDuration
}

// AfterTick 结算本步的通行时间统计并生成采样，不修改任何车辆状态
// 参数：t-本步结束时刻，dt-步长
func (r *Road) AfterTick(t, dt float64) entity.RoadSample {
	r.stats.refresh(t, dt, r.weight)
	return entity.RoadSample{
		RoadID:       r.id,
		T:            t,
		VehicleCount: r.VehicleCount(),
		AvgSpeed:     r.AvgSpeed(),
		AvgDuration:  r.AvgDuration(),
	}
}
