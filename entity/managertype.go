package entity

// Manager依赖倒置

// entity/roadnet/roadnet.go的依赖倒置
type IRoadNet interface {
	// 输入Road ID，查找Road，如果不存在则panic
	Road(id int32) IRoad
	// 输入Crossroad ID，查找Crossroad，如果不存在则panic
	Crossroad(id int32) ICrossroad
	// 以自由流通行时间为边权规划路线（只经过通车道路），from为起点路口，to为终点路口
	Route(from, to int32) ([]IRoad, error)
	// 以平均通行时间为边权规划路线
	LiveRoute(from, to int32) ([]IRoad, error)
}

// entity/car/manager.go的依赖倒置
type ICarManager interface {
	// 车辆在时刻t完成路线，离开仿真
	Finish(car ICar, t float64)
	// 为主动导航车辆重新规划剩余路线
	Reroute(car ICar)
}
