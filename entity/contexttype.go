package entity

import (
	"github.com/tsinghua-fib-lab/roadnet-sim/clock"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
)

// IRandom 随机数源，由仿真驱动注入，用于车辆生成的起终点、车长与导航策略
type IRandom interface {
	Float64() float64                            // [0,1)均匀分布
	PTrue(p float64) bool                        // 以概率p返回true
	Uniform(min, max float64) float64            // [min,max)均匀分布
	DiscreteDistribution(weight []float64) int32 // 按权重选择下标
}

// ITaskContext 仿真任务上下文，实体通过它访问时钟、配置、路网与其他管理器
type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	RoadNet() IRoadNet
	CarManager() ICarManager
	Statistics() IStatistics
}
