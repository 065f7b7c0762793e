package priority

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
)

// directionInfo 单个转向的让行信息
type directionInfo struct {
	priors  []entity.Direction // 有车等待时本转向需要让行的转向
	waiting map[int32]struct{} // 在本转向上等待通过的车辆
}

// Crossing 无信号路口的让行规则
// 功能：没有配置优先转向的转向直接放行；配置了优先转向的转向，车辆需停在路口前，且所有优先转向都无车等待时才放行
type Crossing struct {
	directions map[entity.Direction]*directionInfo
	order      []entity.Direction
}

// New 创建无信号路口
func New() *Crossing {
	return &Crossing{
		directions: make(map[entity.Direction]*directionInfo),
		order:      make([]entity.Direction, 0),
	}
}

// SetDirections 重新设置路口的全部转向
// 功能：路口的道路变化后调用，保留仍存在的转向的状态，删除不再存在的转向，并清理指向它们的优先关系
func (c *Crossing) SetDirections(directions []entity.Direction) {
	next := make(map[entity.Direction]*directionInfo, len(directions))
	for _, d := range directions {
		if info, ok := c.directions[d]; ok {
			next[d] = info
		} else {
			next[d] = &directionInfo{waiting: make(map[int32]struct{})}
		}
	}
	for d, info := range next {
		info.priors = lo.Filter(info.priors, func(p entity.Direction, _ int) bool {
			_, ok := next[p]
			if !ok {
				log.Debugf("drop stale prior %v of direction %v", p, d)
			}
			return ok
		})
	}
	c.directions = next
	c.order = lo.Uniq(directions)
}

// Directions 路口的全部转向
func (c *Crossing) Directions() []entity.Direction {
	return c.order
}

// SetPriors 设置转向dir的优先转向
// 返回：dir不是路口的转向时返回false；不存在的优先转向被忽略
func (c *Crossing) SetPriors(dir entity.Direction, priors []entity.Direction) bool {
	info, ok := c.directions[dir]
	if !ok {
		log.Debugf("ignore priority of unknown direction %v", dir)
		return false
	}
	info.priors = lo.Filter(lo.Uniq(priors), func(p entity.Direction, _ int) bool {
		if _, ok := c.directions[p]; !ok || p == dir {
			log.Debugf("ignore invalid prior %v of direction %v", p, dir)
			return false
		}
		return true
	})
	return true
}

// Priors 转向dir的优先转向
func (c *Crossing) Priors(dir entity.Direction) []entity.Direction {
	if info, ok := c.directions[dir]; ok {
		return info.priors
	}
	return nil
}

// CanCross 判断车辆能否通过路口
// 参数：carID-车辆id，dir-转向，expectedArrival-车辆到达路口还需的时间
// 算法说明：
// 1. 没有优先转向：登记为等待并直接放行
// 2. 有优先转向且车辆尚未到达路口（expectedArrival>0）：不放行，使车辆停在路口前
// 3. 车辆已到达路口：登记为等待，所有优先转向都无车等待时放行
func (c *Crossing) CanCross(carID int32, dir entity.Direction, expectedArrival float64) bool {
	info, ok := c.directions[dir]
	if !ok {
		log.Panicf("unknown direction %v", dir)
	}
	if len(info.priors) == 0 {
		info.waiting[carID] = struct{}{}
		return true
	}
	if expectedArrival > 0 {
		return false
	}
	info.waiting[carID] = struct{}{}
	return !lo.SomeBy(info.priors, func(p entity.Direction) bool {
		return len(c.directions[p].waiting) > 0
	})
}

// Crossed 车辆已通过路口，从等待集合中移除
func (c *Crossing) Crossed(carID int32, dir entity.Direction) {
	info, ok := c.directions[dir]
	if !ok {
		log.Panicf("unknown direction %v", dir)
	}
	delete(info.waiting, carID)
}

// WaitingCount 转向dir上等待的车辆数
func (c *Crossing) WaitingCount(dir entity.Direction) int {
	if info, ok := c.directions[dir]; ok {
		return len(info.waiting)
	}
	return 0
}
