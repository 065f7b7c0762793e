package trafficlight

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
)

var (
	// ErrUncoveredDirection 存在没有任何相位放行的转向
	ErrUncoveredDirection = errors.New("direction not covered by any phase")
	// ErrPhaseCount 相位数不在[1, max_phases]内
	ErrPhaseCount = errors.New("invalid phase count")
)

// Setting 信号灯相位配置
type Setting struct {
	Duration   float64            // 相位时长（秒），创建时截断到[min,max]
	Directions []entity.Direction // 放行的转向
}

type phase struct {
	duration float64
	allowed  map[entity.Direction]struct{}
}

// TrafficLight 定周期信号灯
// 功能：按顺序循环切换相位，判断某个转向的车辆当前能否进入路口
// 说明：状态为当前相位下标与当前相位已经过的时间
type TrafficLight struct {
	phases       []phase
	index        int     // 当前相位
	elapsed      float64 // 当前相位已经过的时间
	yellowMargin float64
}

// New 创建信号灯
// 参数：settings-相位配置，rule-交通规则常量（相位时长范围、最大相位数、黄灯余量）
// 返回：相位数不在[1, rule.MaxPhases]内时返回ErrPhaseCount
func New(settings []Setting, rule config.RuleValues) (*TrafficLight, error) {
	if len(settings) == 0 || len(settings) > rule.MaxPhases {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrPhaseCount, len(settings), rule.MaxPhases)
	}
	return &TrafficLight{
		phases: lo.Map(settings, func(s Setting, _ int) phase {
			return phase{
				duration: lo.Clamp(s.Duration, rule.MinPhaseDuration, rule.MaxPhaseDuration),
				allowed:  lo.SliceToMap(s.Directions, func(d entity.Direction) (entity.Direction, struct{}) { return d, struct{}{} }),
			}
		}),
		yellowMargin: rule.YellowMargin,
	}, nil
}

// Initialize 检查所有相位放行转向的并集是否覆盖路口的全部转向
// 参数：directions-路口的全部转向
// 返回：存在未覆盖的转向时返回包装了ErrUncoveredDirection的错误，并列出这些转向
func (t *TrafficLight) Initialize(directions []entity.Direction) error {
	missing := lo.Filter(directions, func(d entity.Direction, _ int) bool {
		return !lo.ContainsBy(t.phases, func(p phase) bool {
			_, ok := p.allowed[d]
			return ok
		})
	})
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUncoveredDirection, missing)
	}
	return nil
}

// Tick 推进信号灯时间
// 算法说明：已过时间超过当前相位时长时，减去该时长并切换到下一相位（循环），直到已过时间落入当前相位
func (t *TrafficLight) Tick(dt float64) {
	t.elapsed += dt
	for t.elapsed > t.phases[t.index].duration {
		t.elapsed -= t.phases[t.index].duration
		t.index = (t.index + 1) % len(t.phases)
	}
}

// CanCross 判断转向dir的车辆能否开始通过路口
// 参数：dir-转向，expectedArrival-车辆到达路口还需的时间
// 返回：
// 1. 当前相位已到期（处于切换边界）返回false
// 2. 当前相位不放行dir返回false
// 3. 否则只有车辆能在当前相位剩余时间减去黄灯余量之前到达路口时才返回true
func (t *TrafficLight) CanCross(dir entity.Direction, expectedArrival float64) bool {
	p := t.phases[t.index]
	if t.elapsed >= p.duration {
		return false
	}
	if _, ok := p.allowed[dir]; !ok {
		return false
	}
	return expectedArrival < p.duration-t.elapsed-t.yellowMargin
}

// Phase 当前相位下标
func (t *TrafficLight) Phase() int {
	return t.index
}

// Remaining 当前相位剩余时间
func (t *TrafficLight) Remaining() float64 {
	return t.phases[t.index].duration - t.elapsed
}

// Durations 截断后的各相位时长
func (t *TrafficLight) Durations() []float64 {
	return lo.Map(t.phases, func(p phase, _ int) float64 { return p.duration })
}
