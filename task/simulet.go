package task

import (
	"flag"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/road"
)

const (
	SelfName = "roadnet" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 算法说明：
// 1. 使上一步的车辆增删生效
// 2. 心跳日志
// 3. 按当前时间段的生成频率生成车辆并进入等待队列
// 4. 等待队列中的车辆尝试驶入首条道路
func (ctx *Context) prepare() {
	ctx.carManager.Prepare()

	if interval := int32(*heartBeatInterval); interval > 0 && ctx.clock.InternalStep%interval == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		rt := ctx.carManager.Runtime()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) running: %d, staged: %d, finished: %d",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.carManager.RunningCount(), ctx.carManager.StagedCount(), rt.Finished,
		)
	}

	ctx.spawn()
	ctx.carManager.Admit()
}

// update 更新阶段，每步执行一次
// 算法说明：
// 1. 推进所有路口的控制状态（各路口状态独立，并行）
// 2. 所有道路记录车道快照后，依次移动车辆（车辆会跨道路移动，串行）
// 3. 结算道路统计（各道路状态独立，并行计算，串行输出采样）
// 4. 时钟前进一步
func (ctx *Context) update() {
	dt := ctx.clock.DT
	parallel.GoFor(ctx.roadNet.Crossroads(), func(c *crossroad.Crossroad) { c.Tick(dt) })

	roads := ctx.roadNet.Roads()
	for _, r := range roads {
		r.Prepare()
	}
	for _, r := range roads {
		r.Update(dt)
	}

	t := ctx.clock.T + dt
	samples := parallel.GoMap(roads, func(r *road.Road) entity.RoadSample { return r.AfterTick(t, dt) })
	if t >= ctx.nextSample {
		for _, s := range samples {
			ctx.statistics.RoadSampled(s)
		}
		ctx.nextSample += ctx.runtimeConfig.Stats.SampleInterval
	}

	ctx.clock.Advance()
}

// Step 执行一步仿真
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// spawn 生成车辆
// 算法说明：
// 1. 本步期望生成数 = 当前时间段的频率 * dt，整数部分直接生成，小数部分按概率生成一辆
// 2. 起点按通车驶出道路数加权选取路口，终点按通车驶入道路数加权选取不同于起点的路口
// 3. 车长在配置范围内均匀分布，按主动导航比例决定导航策略
// 4. 不可达的起终点对放弃生成
func (ctx *Context) spawn() {
	sim := ctx.runtimeConfig.Sim
	freq := sim.Spawn.Frequency
	if len(freq) == 0 {
		return
	}
	bucket := int(ctx.clock.T/sim.Spawn.BucketDuration) % len(freq)
	expected := freq[bucket] * ctx.clock.DT
	n := int(expected)
	if ctx.generator.PTrue(expected - float64(n)) {
		n++
	}
	if n == 0 {
		return
	}
	crossroads := ctx.roadNet.Crossroads()
	sources := lo.Filter(crossroads, func(c *crossroad.Crossroad, _ int) bool { return len(c.OutRoads()) > 0 })
	targets := lo.Filter(crossroads, func(c *crossroad.Crossroad, _ int) bool { return len(c.InRoads()) > 0 })
	if len(sources) == 0 || len(targets) == 0 {
		log.Debugf("no crossroad to spawn cars")
		return
	}
	srcWeight := lo.Map(sources, func(c *crossroad.Crossroad, _ int) float64 { return float64(len(c.OutRoads())) })
	for range n {
		src := sources[ctx.generator.DiscreteDistribution(srcWeight)].ID()
		others := lo.Filter(targets, func(c *crossroad.Crossroad, _ int) bool { return c.ID() != src })
		if len(others) == 0 {
			log.Debugf("no destination for cars from %d", src)
			continue
		}
		dstWeight := lo.Map(others, func(c *crossroad.Crossroad, _ int) float64 { return float64(len(c.InRoads())) })
		dst := others[ctx.generator.DiscreteDistribution(dstWeight)].ID()
		length := ctx.generator.Uniform(sim.Vehicle.MinLength, sim.Vehicle.MaxLength)
		active := ctx.generator.PTrue(sim.ActiveNavigationFraction)
		if _, err := ctx.carManager.Spawn(src, dst, length, active); err != nil {
			log.Debugf("spawn failed: %v", err)
		}
	}
}

// Run 运行
// 功能：初始化后逐步推进直到结束步；配置了sidecar时与syncer同步步进
func (ctx *Context) Run() error {
	if err := ctx.Init(); err != nil {
		return err
	}
	if ctx.sidecar != nil {
		// init syncer
		ctx.sidecar.Step(false)
	}
	for !ctx.clock.Done() {
		ctx.prepare()
		if ctx.sidecar != nil {
			// 通知准备阶段完成
			ctx.sidecar.NotifyStepReady()
		}
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if ctx.sidecar != nil && ctx.sidecar.Step(ctx.clock.Done()) {
			break
		}
		if ctx.closed.Load() {
			break
		}
	}
	rt := ctx.carManager.Runtime()
	log.Infof("engine complete: spawned %d, admitted %d, finished %d", rt.Spawned, rt.Admitted, rt.Finished)
	ctx.Close()
	return nil
}
