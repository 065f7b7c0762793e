package container

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var (
	ErrEmpty        = errors.New("container: empty heap")
	ErrDuplicate    = errors.New("container: duplicate value")
	ErrNotFound     = errors.New("container: value not found")
	ErrKeyIncreased = errors.New("container: decrease-key with a larger key")
)

// item 堆中的单个元素
type item[K constraints.Ordered, V comparable] struct {
	Key   K // 优先级（越小越优先）
	Value V // 元素的值，同时作为decrease-key的句柄
}

// IndexedMinHeap 支持decrease-key的最小堆
// 功能：数组实现的二叉最小堆，额外维护value->数组下标的映射，使得可以按value定位并修改其key
// 说明：
// 1. 同一个value在堆中至多出现一次
// 2. 每次交换元素时同步更新下标映射
// 3. Insert/ExtractMin/DecreaseKey均为O(log n)，Peek为O(1)
type IndexedMinHeap[K constraints.Ordered, V comparable] struct {
	data  []item[K, V]
	index map[V]int
}

// NewIndexedMinHeap 创建空堆
func NewIndexedMinHeap[K constraints.Ordered, V comparable]() *IndexedMinHeap[K, V] {
	return &IndexedMinHeap[K, V]{
		data:  make([]item[K, V], 0),
		index: make(map[V]int),
	}
}

// Len 获取堆中元素数量
func (h *IndexedMinHeap[K, V]) Len() int {
	return len(h.data)
}

// Contains 检查value是否在堆中
func (h *IndexedMinHeap[K, V]) Contains(value V) bool {
	_, ok := h.index[value]
	return ok
}

// Key 获取value当前的key
func (h *IndexedMinHeap[K, V]) Key(value V) (key K, ok bool) {
	i, ok := h.index[value]
	if !ok {
		return
	}
	return h.data[i].Key, true
}

// Insert 插入元素
// 功能：将(key,value)插入堆尾并上浮
// 参数：key-优先级，value-元素值
// 返回：value已存在时返回ErrDuplicate
func (h *IndexedMinHeap[K, V]) Insert(key K, value V) error {
	if _, ok := h.index[value]; ok {
		return ErrDuplicate
	}
	h.data = append(h.data, item[K, V]{Key: key, Value: value})
	i := len(h.data) - 1
	h.index[value] = i
	h.up(i)
	return nil
}

// Peek 查看堆顶元素（不移除）
func (h *IndexedMinHeap[K, V]) Peek() (key K, value V, err error) {
	if len(h.data) == 0 {
		err = ErrEmpty
		return
	}
	return h.data[0].Key, h.data[0].Value, nil
}

// ExtractMin 弹出堆顶元素
// 功能：取出key最小的元素
// 算法说明：
// 1. 交换堆顶与最后一个元素
// 2. 弹出最后一个元素并删除其下标映射
// 3. 从根开始下沉恢复堆序
func (h *IndexedMinHeap[K, V]) ExtractMin() (key K, value V, err error) {
	if len(h.data) == 0 {
		err = ErrEmpty
		return
	}
	top := h.data[0]
	n := len(h.data) - 1
	h.swap(0, n)
	h.data = h.data[:n]
	delete(h.index, top.Value)
	if n > 0 {
		h.down(0)
	}
	return top.Key, top.Value, nil
}

// DecreaseKey 降低value对应的key
// 功能：按value句柄定位元素，修改其key后上浮
// 参数：value-元素句柄，key-新的key
// 返回：value不存在返回ErrNotFound，新key大于旧key返回ErrKeyIncreased（此时堆不变）
func (h *IndexedMinHeap[K, V]) DecreaseKey(value V, key K) error {
	i, ok := h.index[value]
	if !ok {
		return ErrNotFound
	}
	if key > h.data[i].Key {
		return ErrKeyIncreased
	}
	h.data[i].Key = key
	h.up(i)
	return nil
}

func (h *IndexedMinHeap[K, V]) swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.index[h.data[i].Value] = i
	h.index[h.data[j].Value] = j
}

func (h *IndexedMinHeap[K, V]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !(h.data[i].Key < h.data[parent].Key) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *IndexedMinHeap[K, V]) down(i int) {
	n := len(h.data)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.data[left].Key < h.data[smallest].Key {
			smallest = left
		}
		if right < n && h.data[right].Key < h.data[smallest].Key {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
