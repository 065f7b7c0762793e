package trafficlight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad/trafficlight"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
)

var (
	d1 = entity.Direction{From: 1, To: 2}
	d2 = entity.Direction{From: 3, To: 2}
	d3 = entity.Direction{From: 1, To: 4}

	rule = config.RuleValues{
		MinGap:           1,
		YellowMargin:     3,
		MinPhaseDuration: 5,
		MaxPhaseDuration: 120,
		MaxPhases:        8,
	}
)

func newLight(t *testing.T) *trafficlight.TrafficLight {
	tl, err := trafficlight.New([]trafficlight.Setting{
		{Duration: 10, Directions: []entity.Direction{d1}},
		{Duration: 20, Directions: []entity.Direction{d2}},
	}, rule)
	require.NoError(t, err)
	return tl
}

func TestInitializeCoverage(t *testing.T) {
	tl := newLight(t)
	assert.NoError(t, tl.Initialize([]entity.Direction{d1, d2}))

	err := tl.Initialize([]entity.Direction{d1, d2, d3})
	assert.ErrorIs(t, err, trafficlight.ErrUncoveredDirection)
	assert.Contains(t, err.Error(), d3.String())
}

func TestPhaseLimits(t *testing.T) {
	_, err := trafficlight.New(nil, rule)
	assert.ErrorIs(t, err, trafficlight.ErrPhaseCount)

	settings := make([]trafficlight.Setting, rule.MaxPhases+1)
	_, err = trafficlight.New(settings, rule)
	assert.ErrorIs(t, err, trafficlight.ErrPhaseCount)

	tl, err := trafficlight.New([]trafficlight.Setting{{Duration: 1}, {Duration: 1000}}, rule)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 120}, tl.Durations())
}

func TestTickAndCanCross(t *testing.T) {
	tl := newLight(t)
	assert.Equal(t, 0, tl.Phase())

	tl.Tick(1)
	assert.True(t, tl.CanCross(d1, 0))
	assert.False(t, tl.CanCross(d2, 0))
	// 剩余9秒，黄灯余量3秒
	assert.True(t, tl.CanCross(d1, 5.9))
	assert.False(t, tl.CanCross(d1, 6))

	// 恰好到期：处于切换边界
	tl.Tick(9)
	assert.Equal(t, 0, tl.Phase())
	assert.Equal(t, 0.0, tl.Remaining())
	assert.False(t, tl.CanCross(d1, 0))

	tl.Tick(0.5)
	assert.Equal(t, 1, tl.Phase())
	assert.InDelta(t, 19.5, tl.Remaining(), 1e-9)
	assert.False(t, tl.CanCross(d1, 0))
	assert.True(t, tl.CanCross(d2, 0))

	// 一次推进跨越多个相位并循环
	tl.Tick(19.5 + 10 + 2)
	assert.Equal(t, 1, tl.Phase())
	assert.InDelta(t, 18, tl.Remaining(), 1e-9)
}

// 剩余时间必须超过 预计到达时间+黄灯余量 才放行：
// 只看剩余时间是否超过黄灯余量会放行到达时相位已经切换的车辆
func TestYellowMarginBoundary(t *testing.T) {
	tl := newLight(t)
	require.NoError(t, tl.Initialize([]entity.Direction{d1, d2}))

	tl.Tick(6)
	assert.InDelta(t, 4, tl.Remaining(), 1e-9)
	assert.True(t, tl.CanCross(d1, 0))
	assert.True(t, tl.CanCross(d1, 0.9))
	// 剩余4秒已超过黄灯余量，但车辆1秒后才到达
	assert.False(t, tl.CanCross(d1, 1))
	assert.False(t, tl.CanCross(d1, 3.5))

	// 剩余时间等于黄灯余量时不再放行
	tl.Tick(1)
	assert.InDelta(t, 3, tl.Remaining(), 1e-9)
	assert.False(t, tl.CanCross(d1, 0))
}
