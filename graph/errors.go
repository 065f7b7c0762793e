package graph

import "errors"

var (
	// ErrNotFound 按id查找的节点或边不存在
	ErrNotFound = errors.New("graph: not found")
	// ErrUnknownNode 最短路查询的起点或终点不在图中（调用方输入错误）
	ErrUnknownNode = errors.New("graph: unknown node")
	// ErrInconsistent 图结构不一致，例如边的端点不在图中，说明调用方破坏了增删约定
	ErrInconsistent = errors.New("graph: inconsistent structure")
	// ErrNoRoute 路径为空，无法构造导航
	ErrNoRoute = errors.New("graph: no route")
	// ErrExhausted 导航已走完，不能再前进
	ErrExhausted = errors.New("graph: navigation exhausted")
)
