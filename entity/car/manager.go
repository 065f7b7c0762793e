package car

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

// GlobalRuntime 车辆全局统计
type GlobalRuntime struct {
	Spawned    int     // 生成的车辆数
	Admitted   int     // 已驶入首条道路的车辆数
	Finished   int     // 完成行程的车辆数
	TravelTime float64 // 已完成车辆的总行程时间（生成到完成）
}

// Manager 车辆管理器
// 功能：生成车辆并规划初始路线、把等待上路的车辆放到首条道路、回收完成行程的车辆、为主动导航车辆重新规划路线
// 说明：
// 1. 新生成的车辆先进入等待队列，首条道路没有空间时下一步重试
// 2. 在路上的车辆保存在增量数组中，完成行程的车辆在下一步Prepare时移除
type Manager struct {
	ctx entity.ITaskContext

	cars   *container.IncrementalArray[*Car]
	staged []*Car
	nextID int32

	runtime GlobalRuntime
}

// NewManager 创建车辆管理器
func NewManager(ctx entity.ITaskContext) *Manager {
	return &Manager{
		ctx:    ctx,
		cars:   container.NewIncrementalArray[*Car](),
		staged: make([]*Car, 0),
	}
}

// Spawn 生成车辆
// 功能：按自由流通行时间规划从src路口到dst路口的路线，车辆进入等待上路队列
// 参数：src/dst-起终点路口，length-车长，active-是否主动导航
// 返回：新车辆；不可达时返回包装了graph.ErrNoRoute的错误
func (m *Manager) Spawn(src, dst int32, length float64, active bool) (*Car, error) {
	route, err := m.ctx.RoadNet().Route(src, dst)
	if err != nil {
		return nil, fmt.Errorf("spawn %d->%d: %w", src, dst, err)
	}
	t := m.ctx.Clock().T
	car, err := New(m.nextID, length, route, dst, active, t)
	if err != nil {
		return nil, fmt.Errorf("spawn %d->%d: %w", src, dst, err)
	}
	m.nextID++
	m.staged = append(m.staged, car)
	m.runtime.Spawned++
	m.ctx.Statistics().CarSpawned(car.id, t)
	return car, nil
}

// Admit 让等待队列中的车辆尝试驶入首条道路，失败的车辆保持原顺序留在队列中
// 说明：
// 1. 首条道路已停止通车的主动导航车辆先从起点路口重新规划
// 2. 上路成功的主动导航车辆立即按当前路况重新规划
func (m *Manager) Admit() {
	m.staged = lo.Filter(m.staged, func(car *Car, _ int) bool {
		if car.active && !car.Road().Connected() {
			m.restage(car)
		}
		if car.Road().TryGetOn(car) {
			m.cars.Add(car)
			m.runtime.Admitted++
			m.Reroute(car)
			return false
		}
		log.Debugf("car %d waits for space on road %d", car.id, car.Road().ID())
		return true
	})
}

// Prepare 使上一步的车辆增删生效
func (m *Manager) Prepare() {
	m.cars.Prepare()
}

// Finish 车辆在时刻t完成行程
func (m *Manager) Finish(car entity.ICar, t float64) {
	c, ok := car.(*Car)
	if !ok {
		log.Panicf("unknown car type %T", car)
	}
	m.cars.Remove(c)
	m.runtime.Finished++
	m.runtime.TravelTime += t - c.spawnTime
	m.ctx.Statistics().CarFinished(c.id, t)
}

// Reroute 主动导航车辆以各道路的平均通行时间为边权，从当前道路终点重新规划剩余路线
// 说明：被动导航车辆保持生成时的路线；规划失败时保留原路线
func (m *Manager) Reroute(car entity.ICar) {
	c, ok := car.(*Car)
	if !ok || !c.active {
		return
	}
	road := c.Road()
	route, err := m.ctx.RoadNet().LiveRoute(road.To(), c.destination)
	if err != nil {
		log.Debugf("car %d keeps its route: %v", c.id, err)
		return
	}
	if err := c.replaceRoute(append([]entity.IRoad{road}, route...)); err != nil {
		log.Debugf("car %d keeps its route: %v", c.id, err)
	}
}

// restage 尚未上路的主动导航车辆从起点路口重新规划，规划失败时保留原路线
func (m *Manager) restage(c *Car) {
	route, err := m.ctx.RoadNet().LiveRoute(c.Road().From(), c.destination)
	if err == nil {
		err = c.resetRoute(route)
	}
	if err != nil {
		log.Debugf("staged car %d keeps its route: %v", c.id, err)
	}
}

// Cars 在路上的车辆
func (m *Manager) Cars() []*Car {
	return m.cars.Data()
}

// RunningCount 在路上的车辆数，包括本步新上路、不包括本步完成行程的车辆
func (m *Manager) RunningCount() int {
	add, remove := m.cars.Pending()
	return m.cars.Len() + add - remove
}

// StagedCount 等待上路的车辆数
func (m *Manager) StagedCount() int {
	return len(m.staged)
}

// Runtime 全局统计
func (m *Manager) Runtime() GlobalRuntime {
	return m.runtime
}
