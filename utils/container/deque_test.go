package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/container"
)

func TestDequeInit(t *testing.T) {
	d := container.NewDeque[int]()
	assert.Equal(t, 0, d.Len())
	_, ok := d.Front()
	assert.False(t, ok)
	_, ok = d.Back()
	assert.False(t, ok)
	assert.Empty(t, d.Values())
	assert.Panics(t, func() { d.PopFront() })
	assert.Panics(t, func() { d.PopBack() })

	// 零值可直接使用
	var z container.Deque[int]
	z.PushBack(1)
	assert.Equal(t, 1, z.Len())
}

func TestDequeOperation(t *testing.T) {
	d := container.NewDeque[int]()
	// 2, 1
	d.PushBack(1)
	d.PushFront(2)
	// 3, 2, 1, 4
	d.PushFront(3)
	d.PushBack(4)
	assert.Equal(t, []int{3, 2, 1, 4}, d.Values())
	assert.Equal(t, 2, d.At(1))
	assert.Panics(t, func() { d.At(4) })

	front, _ := d.Front()
	back, _ := d.Back()
	assert.Equal(t, 3, front)
	assert.Equal(t, 4, back)

	assert.Equal(t, 3, d.PopFront())
	assert.Equal(t, 4, d.PopBack())
	assert.Equal(t, []int{2, 1}, d.Values())
}

func TestDequeWrapAround(t *testing.T) {
	d := container.NewDeque[int]()
	// 反复入队出队使head绕过缓冲区末尾
	for i := 0; i < 20; i++ {
		d.PushBack(i)
		if i%2 == 1 {
			d.PopFront()
		}
	}
	assert.Equal(t, 10, d.Len())
	for i := 0; i < 10; i++ {
		assert.Equal(t, 10+i, d.At(i))
	}
	// 触发扩容后顺序保持不变
	for i := 0; i < 30; i++ {
		d.PushFront(-i - 1)
	}
	values := d.Values()
	assert.Len(t, values, 40)
	assert.Equal(t, -30, values[0])
	assert.Equal(t, 19, values[39])
}
