package entity

import "fmt"

// Direction 路口转向，(驶入道路id, 驶出道路id)
type Direction struct {
	From int32
	To   int32
}

func (d Direction) String() string {
	return fmt.Sprintf("%d->%d", d.From, d.To)
}

// entity/car/car.go的依赖倒置
type ICar interface {
	ID() int32
	Length() float64         // 车长
	S() float64              // 车头在当前道路上的位置
	SetS(s float64)          // 设置车头位置
	V() float64              // 上一步的速度
	SetV(v float64)          // 设置速度
	Road() IRoad             // 当前道路
	NextRoad() (IRoad, bool) // 路线中的下一条道路，当前已是最后一条时返回false
	Advance() error          // 路线前进到下一条道路
	IsActive() bool          // 是否为主动导航车辆
	SpawnTime() float64      // 生成时间
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	ID() int32
	From() int32          // 起点路口id
	To() int32            // 终点路口id
	Length() float64      // 长度
	MaxV() float64        // 限速
	Weight() float64      // 自由流通行时间 = Length/MaxV
	Connected() bool      // 是否通车
	AvgDuration() float64 // 平滑后的平均通行时间
	VehicleCount() int    // 道路上的车辆数

	// 车辆尝试驶入道路（用于生成后上路），选择入口处空间最大的车道，空间不足或道路未通车时返回false
	TryGetOn(car ICar) bool
	// 把从上游路口驶来的车辆放到道路入口，返回所在车道；失败时车辆不发生任何变化
	Accept(car ICar) (lane int, ok bool)
	// 记录刚由Accept放入lane车道的车辆在时刻t驶入，并用剩余时间dt继续行驶
	Continue(car ICar, lane int, t, dt float64)
}

// entity/crossroad/crossroad.go的依赖倒置
type ICrossroad interface {
	ID() int32
	// 车辆能否从from驶向to，expectedArrival为车辆到达路口还需的时间
	CanCross(car ICar, from, to int32, expectedArrival float64) bool
	// 车辆已通过路口
	Crossed(car ICar, from, to int32)
}

// RoadSample 道路周期采样
type RoadSample struct {
	RoadID       int32
	T            float64 // 采样时间
	VehicleCount int     // 车辆数
	AvgSpeed     float64 // 平均速度
	AvgDuration  float64 // 平均通行时间
}

// IStatistics 统计输出，由外部注入
type IStatistics interface {
	CarSpawned(carID int32, t float64)
	CarEnteredRoad(carID, roadID int32, t float64)
	CarLeftRoad(carID, roadID int32, t float64)
	CarFinished(carID int32, t float64)
	RoadSampled(sample RoadSample)
}
