package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

func TestHeapInit(t *testing.T) {
	h := container.NewIndexedMinHeap[float64, string]()
	assert.Equal(t, 0, h.Len())
	_, _, err := h.Peek()
	assert.ErrorIs(t, err, container.ErrEmpty)
	_, _, err = h.ExtractMin()
	assert.ErrorIs(t, err, container.ErrEmpty)
}

func TestHeapOperation(t *testing.T) {
	h := container.NewIndexedMinHeap[float64, string]()
	require.NoError(t, h.Insert(5, "a"))
	require.NoError(t, h.Insert(3, "b"))
	require.NoError(t, h.Insert(8, "c"))

	k, v, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 3.0, k)
	assert.Equal(t, "b", v)

	require.NoError(t, h.DecreaseKey("c", 1))
	k, v, err = h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 1.0, k)
	assert.Equal(t, "c", v)

	k, v, err = h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 5.0, k)
	assert.Equal(t, "a", v)
	assert.Equal(t, 0, h.Len())
}

func TestHeapErrors(t *testing.T) {
	h := container.NewIndexedMinHeap[int, int]()
	require.NoError(t, h.Insert(1, 10))
	assert.ErrorIs(t, h.Insert(2, 10), container.ErrDuplicate)
	assert.ErrorIs(t, h.DecreaseKey(11, 0), container.ErrNotFound)

	// 增大key被拒绝且堆保持不变
	assert.ErrorIs(t, h.DecreaseKey(10, 5), container.ErrKeyIncreased)
	k, ok := h.Key(10)
	assert.True(t, ok)
	assert.Equal(t, 1, k)

	// 相等的key视为合法
	assert.NoError(t, h.DecreaseKey(10, 1))
}

func TestHeapOrder(t *testing.T) {
	h := container.NewIndexedMinHeap[int, int]()
	keys := []int{42, 7, 19, 3, 88, 23, 7, 61, 0, 15, 4, 99}
	for i, k := range keys {
		require.NoError(t, h.Insert(k, i))
	}
	// 随意降低部分key
	require.NoError(t, h.DecreaseKey(4, 1))  // 88 -> 1
	require.NoError(t, h.DecreaseKey(11, 2)) // 99 -> 2
	assert.True(t, h.Contains(4))

	last := -1
	for h.Len() > 0 {
		k, v, err := h.ExtractMin()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, k, last)
		assert.False(t, h.Contains(v))
		last = k
	}
}
