package road

import (
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

// lane 车道
// 功能：单列车辆队列，队首为最靠近道路终点的车辆，车辆只能从队尾驶入、从队首驶出
// 说明：snapshot为本步开始前的车辆顺序，道路更新时只遍历快照，不受本步内驶入/驶出的影响
type lane struct {
	cars     *container.Deque[entity.ICar]
	snapshot []entity.ICar
}

func newLane() *lane {
	return &lane{
		cars:     container.NewDeque[entity.ICar](),
		snapshot: make([]entity.ICar, 0),
	}
}

// freeSpace 车道入口处的可用空间
// 说明：空车道为整条道路长度，否则为最后一辆车的车尾位置减去最小间距
func (l *lane) freeSpace(length, minGap float64) float64 {
	last, ok := l.cars.Back()
	if !ok {
		return length
	}
	return last.S() - last.Length() - minGap
}

// leader 位于pos的车辆的前车
func (l *lane) leader(pos int) (entity.ICar, bool) {
	if pos == 0 {
		return nil, false
	}
	return l.cars.At(pos - 1), true
}

func (l *lane) prepare() {
	l.snapshot = l.cars.Values()
}
