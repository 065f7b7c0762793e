package task

import (
	"fmt"
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/roadnet-sim/clock"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/car"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/roadnet"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/input"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有组件与状态，替代全局变量
// 说明：随机数源与统计输出由外部注入，相同种子与配置产生相同的仿真过程
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置
	runtimeConfig *config.RuntimeConfig

	// 路网
	roadNet *roadnet.RoadNet
	// 车辆管理器
	carManager *car.Manager

	// 随机数源
	generator entity.IRandom
	// 统计输出
	statistics entity.IStatistics

	// 下一次道路采样的时间
	nextSample float64

	// 可选，分布式模式下与syncer同步步进并提供RPC服务
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
}

// NewContext 创建仿真任务上下文
// 功能：校验配置、创建时钟与各管理器，并按地图配置构建路网
// 参数：c-配置，generator-随机数源，statistics-统计输出
// 返回：配置不合法时返回包装了config.ErrInvalidSettings的错误，地图不合法时返回包装了input.ErrInvalidMap的错误
func NewContext(c config.Config, generator entity.IRandom, statistics entity.IStatistics) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		clock:          clock.New(c.Control.Step),
		runtimeConfig:  rc,
		generator:      generator,
		statistics:     statistics,
		sidecarCloseCh: make(chan struct{}),
	}
	ctx.roadNet = roadnet.New(ctx)
	ctx.carManager = car.NewManager(ctx)
	if err := input.Build(ctx.roadNet, c.Map); err != nil {
		return nil, err
	}
	return ctx, nil
}

// SetSidecar 注册RPC服务到sidecar并在后台启动服务
func (ctx *Context) SetSidecar(sidecar *syncer.Sidecar) {
	ctx.sidecar = sidecar
	ctx.clock.Register(sidecar)
	go func() {
		if err := sidecar.Serve(); err != nil {
			log.Panicf("failed to serve: %v", err)
		}
		ctx.sidecarCloseCh <- struct{}{}
	}()
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) RoadNet() entity.IRoadNet {
	return ctx.roadNet
}

func (ctx *Context) CarManager() entity.ICarManager {
	return ctx.carManager
}

func (ctx *Context) Statistics() entity.IStatistics {
	return ctx.statistics
}

// Net 路网实体，用于地图编辑与查询
func (ctx *Context) Net() *roadnet.RoadNet {
	return ctx.roadNet
}

// Cars 车辆管理器实体
func (ctx *Context) Cars() *car.Manager {
	return ctx.carManager
}

// Init 初始化
// 功能：时钟回到起始步，初始化全部路口；存在不合法路口时仿真不能启动
func (ctx *Context) Init() error {
	ctx.clock.Init()
	if err := ctx.roadNet.Init(); err != nil {
		return fmt.Errorf("road net init: %w", err)
	}
	ctx.nextSample = ctx.clock.T + ctx.runtimeConfig.Stats.SampleInterval
	log.Infof("Crossroad: %d", ctx.roadNet.NodeCount())
	log.Infof("Road: %d", ctx.roadNet.EdgeCount())
	return nil
}

// Close 停止sidecar服务
func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.closed.Store(true)
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
}
