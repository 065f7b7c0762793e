package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/randengine"
)

var _ entity.IRandom = (*randengine.Engine)(nil)

func TestReproducible(t *testing.T) {
	a, b := randengine.New(1), randengine.New(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDistributions(t *testing.T) {
	e := randengine.New(2)
	for i := 0; i < 1000; i++ {
		u := e.Uniform(4, 5)
		assert.GreaterOrEqual(t, u, 4.0)
		assert.Less(t, u, 5.0)
		assert.Equal(t, int32(1), e.DiscreteDistribution([]float64{0, 3, 0}))
	}
	assert.False(t, e.PTrue(0))
	assert.True(t, e.PTrue(1))
	assert.Equal(t, 3.0, e.Uniform(3, 3))
	assert.Panics(t, func() { e.DiscreteDistribution(nil) })
}
