package crossroad

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad/priority"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad/trafficlight"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
)

// ErrInvalidCrossroad 路口配置不合法，仿真不能启动
var ErrInvalidCrossroad = errors.New("invalid crossroad")

// Kind 路口的控制方式
type Kind int

const (
	KindUninitialized Kind = iota // 尚未Initialize
	KindTrafficLight              // 信号灯控制
	KindPriority                  // 无信号，按让行规则
)

func (k Kind) String() string {
	switch k {
	case KindTrafficLight:
		return "traffic_light"
	case KindPriority:
		return "priority"
	default:
		return "uninitialized"
	}
}

// Crossroad 路口实体
// 功能：路网中的节点，持有驶入/驶出道路，并在Initialize时确定唯一的控制方式（信号灯或让行规则）
// 说明：
// 1. 相位数大于1时使用信号灯，否则使用让行规则
// 2. 控制方式确定后不再改变，道路变化只会重新推导转向集合
// 3. 只有通车道路参与转向推导
type Crossroad struct {
	id int32

	in  []int32 // 驶入道路
	out []int32 // 驶出道路

	directions []entity.Direction // in x out
	dirSet     map[entity.Direction]struct{}

	phases     []trafficlight.Setting
	priorities map[entity.Direction][]entity.Direction
	priorOrder []entity.Direction

	kind     Kind
	light    *trafficlight.TrafficLight
	crossing *priority.Crossing
}

// New 创建路口
func New(id int32) *Crossroad {
	return &Crossroad{
		id:         id,
		in:         make([]int32, 0),
		out:        make([]int32, 0),
		directions: make([]entity.Direction, 0),
		dirSet:     make(map[entity.Direction]struct{}),
		priorities: make(map[entity.Direction][]entity.Direction),
	}
}

func (c *Crossroad) ID() int32 {
	return c.id
}

func (c *Crossroad) String() string {
	return fmt.Sprintf("Crossroad{id=%d, kind=%v, in=%v, out=%v}", c.id, c.kind, c.in, c.out)
}

// Kind 控制方式
func (c *Crossroad) Kind() Kind {
	return c.kind
}

// Light 信号灯，非信号灯路口返回nil
func (c *Crossroad) Light() *trafficlight.TrafficLight {
	return c.light
}

// Crossing 让行规则，非无信号路口返回nil
func (c *Crossroad) Crossing() *priority.Crossing {
	return c.crossing
}

// SetPhases 设置信号灯相位，需在Initialize前调用
func (c *Crossroad) SetPhases(phases []trafficlight.Setting) {
	c.phases = phases
}

// SetPriority 设置转向dir的优先转向，在Initialize时（以及之后道路变化时）生效
func (c *Crossroad) SetPriority(dir entity.Direction, priors []entity.Direction) {
	if _, ok := c.priorities[dir]; !ok {
		c.priorOrder = append(c.priorOrder, dir)
	}
	c.priorities[dir] = priors
	if c.crossing != nil {
		c.crossing.SetPriors(dir, priors)
	}
}

func directions(in, out []int32) []entity.Direction {
	dirs := make([]entity.Direction, 0, len(in)*len(out))
	for _, from := range in {
		for _, to := range out {
			dirs = append(dirs, entity.Direction{From: from, To: to})
		}
	}
	return dirs
}

// CheckRoads 检查以in/out为驶入/驶出道路后控制方式是否仍然有效，不修改路口
// 返回：已初始化的信号灯路口出现没有相位放行的转向时返回包装了ErrInvalidCrossroad的错误
func (c *Crossroad) CheckRoads(in, out []int32) error {
	if c.kind != KindTrafficLight {
		return nil
	}
	if err := c.light.Initialize(directions(lo.Uniq(in), lo.Uniq(out))); err != nil {
		return fmt.Errorf("crossroad %d: %w: %w", c.id, ErrInvalidCrossroad, err)
	}
	return nil
}

// SetRoads 设置路口的驶入与驶出道路（只包括通车道路），并重新推导全部转向
// 说明：信号灯路口的道路变化须先经CheckRoads检查，未覆盖的转向不会放行
func (c *Crossroad) SetRoads(in, out []int32) {
	c.in = lo.Uniq(in)
	c.out = lo.Uniq(out)
	c.directions = directions(c.in, c.out)
	c.dirSet = lo.SliceToMap(c.directions, func(d entity.Direction) (entity.Direction, struct{}) { return d, struct{}{} })
	switch c.kind {
	case KindPriority:
		c.crossing.SetDirections(c.directions)
		c.applyPriorities()
	case KindTrafficLight:
		if err := c.light.Initialize(c.directions); err != nil {
			log.Errorf("crossroad %d: %v", c.id, err)
		}
	}
}

// InRoads 驶入道路
func (c *Crossroad) InRoads() []int32 {
	return c.in
}

// OutRoads 驶出道路
func (c *Crossroad) OutRoads() []int32 {
	return c.out
}

// Directions 路口的全部转向
func (c *Crossroad) Directions() []entity.Direction {
	return c.directions
}

// Initialize 确定控制方式并校验
// 参数：rule-交通规则常量
// 返回：相位数不合法或相位没有覆盖全部转向时返回包装了ErrInvalidCrossroad的错误
func (c *Crossroad) Initialize(rule config.RuleValues) error {
	if c.kind != KindUninitialized {
		log.Panicf("crossroad %d is initialized twice", c.id)
	}
	if len(c.phases) > 1 {
		light, err := trafficlight.New(c.phases, rule)
		if err != nil {
			return fmt.Errorf("crossroad %d: %w: %w", c.id, ErrInvalidCrossroad, err)
		}
		if err := light.Initialize(c.directions); err != nil {
			return fmt.Errorf("crossroad %d: %w: %w", c.id, ErrInvalidCrossroad, err)
		}
		c.kind, c.light = KindTrafficLight, light
		return nil
	}
	c.kind, c.crossing = KindPriority, priority.New()
	c.crossing.SetDirections(c.directions)
	c.applyPriorities()
	return nil
}

func (c *Crossroad) applyPriorities() {
	for _, dir := range c.priorOrder {
		c.crossing.SetPriors(dir, c.priorities[dir])
	}
}

// Tick 推进控制状态，每步在车辆移动前调用
func (c *Crossroad) Tick(dt float64) {
	if c.kind == KindTrafficLight {
		c.light.Tick(dt)
	}
}

// CanCross 车辆能否从道路from驶向道路to
// 说明：不属于当前转向集合的转向（例如驶入道路已停止通车）一律不放行
func (c *Crossroad) CanCross(car entity.ICar, from, to int32, expectedArrival float64) bool {
	dir := entity.Direction{From: from, To: to}
	if _, ok := c.dirSet[dir]; !ok && c.kind != KindUninitialized {
		log.Debugf("crossroad %d: car %d asks for unknown direction %v", c.id, car.ID(), dir)
		return false
	}
	switch c.kind {
	case KindTrafficLight:
		return c.light.CanCross(dir, expectedArrival)
	case KindPriority:
		return c.crossing.CanCross(car.ID(), dir, expectedArrival)
	default:
		log.Panicf("crossroad %d is not initialized", c.id)
		return false
	}
}

// Crossed 车辆已从道路from驶入道路to
func (c *Crossroad) Crossed(car entity.ICar, from, to int32) {
	switch c.kind {
	case KindTrafficLight:
	case KindPriority:
		dir := entity.Direction{From: from, To: to}
		if _, ok := c.dirSet[dir]; ok {
			c.crossing.Crossed(car.ID(), dir)
		}
	default:
		log.Panicf("crossroad %d is not initialized", c.id)
	}
}
