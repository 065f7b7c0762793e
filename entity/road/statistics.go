package road

import (
	"math"

	"github.com/samber/lo"
)

// statistics 道路通行时间统计
// 功能：记录车辆驶入时刻，车辆驶出时把通行时间写入定长窗口，每步按指数平滑刷新平均通行时间
type statistics struct {
	arrivals map[int32]float64 // 车辆id->驶入时刻

	window []float64 // 最近的通行时间（环形）
	next   int

	timeConstant float64
	avgDuration  float64
}

func newStatistics(window int, timeConstant, freeFlow float64) *statistics {
	return &statistics{
		arrivals:     make(map[int32]float64),
		window:       make([]float64, 0, window),
		timeConstant: timeConstant,
		avgDuration:  freeFlow,
	}
}

func (s *statistics) arrive(carID int32, t float64) {
	s.arrivals[carID] = t
}

func (s *statistics) depart(carID int32, t float64) {
	arrival, ok := s.arrivals[carID]
	if !ok {
		log.Panicf("car %d departs without arrival", carID)
	}
	delete(s.arrivals, carID)
	d := t - arrival
	if len(s.window) < cap(s.window) {
		s.window = append(s.window, d)
		return
	}
	s.window[s.next] = d
	s.next = (s.next + 1) % len(s.window)
}

// refresh 指数平滑更新平均通行时间
// 算法说明：
// 1. 目标值为窗口内通行时间的均值（窗口为空时为自由流通行时间）
// 2. 道路上停留最久的车辆已停留的时间若更长，则以其为目标值，使拥堵在车辆驶出前就能体现
// 3. 道路空闲时目标值为自由流通行时间
// 4. avg = k*avg + (1-k)*target，k = exp(-dt/timeConstant)
func (s *statistics) refresh(t, dt, freeFlow float64) {
	target := freeFlow
	if len(s.arrivals) > 0 {
		if len(s.window) > 0 {
			target = max(target, lo.Sum(s.window)/float64(len(s.window)))
		}
		target = max(target, t-lo.Min(lo.Values(s.arrivals)))
	}
	k := math.Exp(-dt / s.timeConstant)
	s.avgDuration = k*s.avgDuration + (1-k)*target
}
