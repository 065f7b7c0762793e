package priority_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad/priority"
)

var (
	d1 = entity.Direction{From: 1, To: 3}
	d2 = entity.Direction{From: 2, To: 3}
	d3 = entity.Direction{From: 1, To: 4}
)

func TestYield(t *testing.T) {
	c := priority.New()
	c.SetDirections([]entity.Direction{d1, d2})
	assert.True(t, c.SetPriors(d2, []entity.Direction{d1}))

	// 无优先转向：直接放行并登记等待
	assert.True(t, c.CanCross(100, d1, 5))
	assert.Equal(t, 1, c.WaitingCount(d1))

	// 尚未到达路口：停车
	assert.False(t, c.CanCross(200, d2, 1))
	assert.Equal(t, 0, c.WaitingCount(d2))

	// 到达路口但d1有车等待：让行
	assert.False(t, c.CanCross(200, d2, 0))
	assert.Equal(t, 1, c.WaitingCount(d2))

	c.Crossed(100, d1)
	assert.True(t, c.CanCross(200, d2, 0))
	c.Crossed(200, d2)
	assert.Equal(t, 0, c.WaitingCount(d2))
}

func TestSetDirectionsPrunes(t *testing.T) {
	c := priority.New()
	c.SetDirections([]entity.Direction{d1, d2, d3})
	assert.True(t, c.SetPriors(d2, []entity.Direction{d1, d3, d2, {From: 9, To: 9}}))
	assert.Equal(t, []entity.Direction{d1, d3}, c.Priors(d2))
	assert.False(t, c.SetPriors(entity.Direction{From: 9, To: 9}, nil))

	assert.True(t, c.CanCross(1, d3, 0))
	c.SetDirections([]entity.Direction{d2, d3})
	assert.Equal(t, []entity.Direction{d3}, c.Priors(d2))
	// 保留仍存在转向的等待状态
	assert.Equal(t, 1, c.WaitingCount(d3))
	assert.False(t, c.CanCross(2, d2, 0))
	assert.ElementsMatch(t, []entity.Direction{d2, d3}, c.Directions())

	assert.Panics(t, func() { c.CanCross(3, d1, 0) })
}
