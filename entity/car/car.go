package car

import (
	"fmt"

	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/graph"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

// Car 车辆实体
// 功能：记录车辆的几何与运动状态，并通过导航游标逐条消费路线
// 说明：车辆同一时刻只属于一条车道，车道决定其前后车，车辆本身不保存前后车引用
type Car struct {
	container.IncrementalItemBase

	id     int32
	length float64 // 车长
	s      float64 // 车头在当前道路上的位置
	v      float64 // 上一步的速度

	nav         *graph.Navigation[entity.IRoad] // 导航，Current()为当前道路
	destination int32                           // 终点路口
	active      bool                            // 是否主动导航

	spawnTime float64
}

// New 创建车辆
// 参数：id-车辆id，length-车长，route-从起点路口到终点路口的道路序列，destination-终点路口，active-是否主动导航，spawnTime-生成时间
// 返回：route为空时返回graph.ErrNoRoute
func New(id int32, length float64, route []entity.IRoad, destination int32, active bool, spawnTime float64) (*Car, error) {
	nav, err := graph.NewNavigation(route)
	if err != nil {
		return nil, fmt.Errorf("car %d: %w", id, err)
	}
	return &Car{
		id:          id,
		length:      length,
		nav:         nav,
		destination: destination,
		active:      active,
		spawnTime:   spawnTime,
	}, nil
}

func (c *Car) String() string {
	return fmt.Sprintf("Car{id=%d, road=%d, s=%.2f, v=%.2f}", c.id, c.Road().ID(), c.s, c.v)
}

func (c *Car) ID() int32 {
	return c.id
}

func (c *Car) Length() float64 {
	return c.length
}

func (c *Car) S() float64 {
	return c.s
}

func (c *Car) SetS(s float64) {
	c.s = s
}

func (c *Car) V() float64 {
	return c.v
}

func (c *Car) SetV(v float64) {
	c.v = v
}

func (c *Car) Road() entity.IRoad {
	return c.nav.Current()
}

func (c *Car) NextRoad() (entity.IRoad, bool) {
	return c.nav.Next()
}

func (c *Car) Advance() error {
	return c.nav.Advance()
}

// Route 从当前道路（含）开始的剩余路线
func (c *Car) Route() []entity.IRoad {
	return c.nav.Remaining()
}

func (c *Car) Destination() int32 {
	return c.destination
}

func (c *Car) IsActive() bool {
	return c.active
}

func (c *Car) SpawnTime() float64 {
	return c.spawnTime
}

// replaceRoute 以当前道路开头的新路线替换导航
func (c *Car) replaceRoute(route []entity.IRoad) error {
	if len(route) == 0 || route[0] != c.Road() {
		return fmt.Errorf("car %d: new route must start from the current road", c.id)
	}
	return c.resetRoute(route)
}

// resetRoute 用新路线替换导航，只用于尚未上路的车辆
func (c *Car) resetRoute(route []entity.IRoad) error {
	nav, err := graph.NewNavigation(route)
	if err != nil {
		return err
	}
	c.nav = nav
	return nil
}
