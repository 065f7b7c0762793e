package container

import "fmt"

const minDequeCapacity = 8

// Deque 环形缓冲区实现的双端队列
// 功能：按前->后顺序存放元素，支持两端O(1)的插入与删除，以及按下标随机访问
// 说明：用于车道上的车辆队列，队首为最靠近道路终点的车辆
type Deque[T any] struct {
	buf   []T
	head  int // 队首在buf中的下标
	count int
}

// NewDeque 创建双端队列
func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{buf: make([]T, minDequeCapacity)}
}

// Len 获取元素数量
func (d *Deque[T]) Len() int {
	return d.count
}

// PushBack 向队尾插入
func (d *Deque[T]) PushBack(v T) {
	d.grow()
	d.buf[(d.head+d.count)%len(d.buf)] = v
	d.count++
}

// PushFront 向队首插入
func (d *Deque[T]) PushFront(v T) {
	d.grow()
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = v
	d.count++
}

// PopFront 弹出队首
func (d *Deque[T]) PopFront() T {
	if d.count == 0 {
		panic("container: pop front from empty deque")
	}
	var zero T
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.count--
	return v
}

// PopBack 弹出队尾
func (d *Deque[T]) PopBack() T {
	if d.count == 0 {
		panic("container: pop back from empty deque")
	}
	var zero T
	i := (d.head + d.count - 1) % len(d.buf)
	v := d.buf[i]
	d.buf[i] = zero
	d.count--
	return v
}

// Front 获取队首，队列为空时ok为false
func (d *Deque[T]) Front() (v T, ok bool) {
	if d.count == 0 {
		return
	}
	return d.buf[d.head], true
}

// Back 获取队尾，队列为空时ok为false
func (d *Deque[T]) Back() (v T, ok bool) {
	if d.count == 0 {
		return
	}
	return d.buf[(d.head+d.count-1)%len(d.buf)], true
}

// At 按下标访问，0为队首
func (d *Deque[T]) At(i int) T {
	if i < 0 || i >= d.count {
		panic(fmt.Sprintf("container: deque index %d out of range [0, %d)", i, d.count))
	}
	return d.buf[(d.head+i)%len(d.buf)]
}

// Values 按前->后顺序复制出所有元素
func (d *Deque[T]) Values() []T {
	values := make([]T, d.count)
	for i := range values {
		values[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	return values
}

// grow 缓冲区满时扩容为两倍，并将元素重排到从0开始
func (d *Deque[T]) grow() {
	if d.buf == nil {
		d.buf = make([]T, minDequeCapacity)
	}
	if d.count < len(d.buf) {
		return
	}
	buf := make([]T, len(d.buf)*2)
	for i := 0; i < d.count; i++ {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}
