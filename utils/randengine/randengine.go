// 随机数引擎，包装了golang.org/x/exp/rand，提供车辆生成所需的常用随机数方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于在不改配置的情况下调整随机数序列
)

// Engine 随机数引擎
// 功能：可复现的随机数源，相同种子产生相同的车辆生成序列
// 说明：非线程安全，只在仿真驱动的生成阶段使用
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子（会加上-rand.seed_offset）
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定权重生成随机下标
// 参数：weight-权重数组，不要求归一化
// 返回：[0, len(weight))内的下标
// 算法说明：
// 1. 在[0, 总权重)范围内生成随机数
// 2. 累积权重直到超过随机数，返回该下标
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以概率p返回true
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Uniform [min, max)均匀分布，min==max时返回min
func (e *Engine) Uniform(min, max float64) float64 {
	return min + (max-min)*e.Float64()
}
