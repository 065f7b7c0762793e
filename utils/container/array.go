package container

// IIncrementalItem 支持增量更新的元素接口
// 功能：元素自行记录在数组中的下标，便于O(1)删除
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类，可作为嵌入字段快速实现IIncrementalItem
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：Add/Remove只记录操作，在Prepare时统一生效，保证一个仿真步内遍历Data()时数组不变
// 说明：待添加的元素索引为-1，若在Prepare前又被Remove则直接从待添加列表中撤销
type IncrementalArray[T IIncrementalItem] struct {
	data   []T
	add    []T
	remove []T
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 获取已生效的元素数量
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取已生效的元素
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Pending 获取待添加与待删除的元素数量
func (a *IncrementalArray[T]) Pending() (add, remove int) {
	return len(a.add), len(a.remove)
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	value.SetIndex(-1)
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
func (a *IncrementalArray[T]) Remove(value T) {
	if value.Index() < 0 {
		for i, x := range a.add {
			if IIncrementalItem(x) == IIncrementalItem(value) {
				a.add = append(a.add[:i], a.add[i+1:]...)
				return
			}
		}
		return
	}
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 算法说明：
// 1. 逐个删除：用数组末尾元素填补被删除元素的位置，并更新其索引
// 2. 将待添加元素追加到数组末尾并设置索引
// 3. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	for _, x := range a.remove {
		i := x.Index()
		last := len(a.data) - 1
		a.data[i] = a.data[last]
		a.data[i].SetIndex(i)
		a.data = a.data[:last]
		x.SetIndex(-1)
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	a.add = a.add[:0]
	a.remove = a.remove[:0]
}
