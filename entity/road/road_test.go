package road_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/car"
	"github.com/tsinghua-fib-lab/roadnet-sim/stats"
	"github.com/tsinghua-fib-lab/roadnet-sim/task"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/randengine"
)

func newContext(t *testing.T, m config.Map) (*task.Context, *stats.Recorder) {
	recorder := stats.NewRecorder()
	ctx, err := task.NewContext(config.Config{
		Control: config.Control{Step: config.ControlStep{Total: 1000, Interval: 1}},
		Map:     m,
	}, randengine.New(0), recorder)
	require.NoError(t, err)
	require.NoError(t, ctx.Init())
	return ctx, recorder
}

func steps(ctx *task.Context, n int) {
	for range n {
		ctx.Step()
	}
}

func TestLaneSelection(t *testing.T) {
	ctx, _ := newContext(t, config.Map{Roads: []config.Road{
		{ID: 1, From: 0, To: 1, Length: 10, MaxV: 10, Lanes: 2},
	}})
	cars := ctx.Cars()
	for range 3 {
		_, err := cars.Spawn(0, 1, 4, false)
		require.NoError(t, err)
	}
	cars.Admit()
	assert.Equal(t, 2, cars.Runtime().Admitted)
	assert.Equal(t, 1, cars.StagedCount())

	r := ctx.Net().GetRoad(1)
	assert.Equal(t, 2, r.VehicleCount())
	require.Len(t, r.LaneCars(0), 1)
	require.Len(t, r.LaneCars(1), 1)
	assert.Equal(t, int32(0), r.LaneCars(0)[0].ID())
	assert.Equal(t, int32(1), r.LaneCars(1)[0].ID())
	assert.Zero(t, r.LaneCars(1)[0].S())
}

func TestUnconnectedRoad(t *testing.T) {
	ctx, recorder := newContext(t, config.Map{Roads: []config.Road{
		{ID: 1, From: 0, To: 1, Length: 100, MaxV: 10, Lanes: 1},
	}})
	r := ctx.Net().GetRoad(1)
	require.True(t, ctx.Net().SetRoadConnected(1, false))
	c, err := car.New(100, 4, []entity.IRoad{r}, 1, false, 0)
	require.NoError(t, err)
	recorder.CarSpawned(c.ID(), 0)
	assert.False(t, r.TryGetOn(c))
	assert.Zero(t, r.VehicleCount())

	require.True(t, ctx.Net().SetRoadConnected(1, true))
	assert.True(t, r.TryGetOn(c))
	assert.Equal(t, 1, r.VehicleCount())
}

func TestChainTrip(t *testing.T) {
	ctx, recorder := newContext(t, config.Map{Roads: []config.Road{
		{ID: 1, From: 1, To: 2, Length: 100, MaxV: 10, Lanes: 1},
		{ID: 2, From: 2, To: 3, Length: 200, MaxV: 10, Lanes: 1},
	}})
	c, err := ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)

	steps(ctx, 5)
	assert.Equal(t, int32(1), c.Road().ID())
	assert.InDelta(t, 50, c.S(), 1e-9)
	assert.InDelta(t, 10, c.V(), 1e-9)

	steps(ctx, 25)
	assert.Equal(t, 1, ctx.Cars().Runtime().Finished)
	assert.InDelta(t, 30, ctx.Cars().Runtime().TravelTime, 1e-9)
	trips, _ := recorder.Trips(c.ID())
	require.Len(t, trips, 1)
	assert.InDelta(t, 30, trips[0].Finish, 1e-9)
	require.Len(t, trips[0].Visits, 2)
	assert.InDelta(t, 10, trips[0].Visits[0].Departure, 1e-9)
	assert.InDelta(t, 10, trips[0].Visits[1].Arrival, 1e-9)

	for _, r := range ctx.Net().Roads() {
		assert.Zero(t, r.VehicleCount())
	}
	ctx.Step()
	assert.Empty(t, ctx.Cars().Cars())
}

func TestFollowing(t *testing.T) {
	ctx, _ := newContext(t, config.Map{Roads: []config.Road{
		{ID: 1, From: 1, To: 2, Length: 1000, MaxV: 10, Lanes: 1},
		{ID: 2, From: 2, To: 3, Length: 1000, MaxV: 10, Lanes: 1},
	}})
	leader, err := ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)
	follower, err := ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)

	// 首条道路入口被前车占据，后车下一步才能上路
	ctx.Step()
	assert.Equal(t, 1, ctx.Cars().StagedCount())
	ctx.Step()
	assert.Zero(t, ctx.Cars().StagedCount())
	assert.InDelta(t, 20, leader.S(), 1e-9)
	assert.InDelta(t, 10, follower.S(), 1e-9)

	steps(ctx, 20)
	gap := leader.S() - leader.Length() - follower.S()
	assert.GreaterOrEqual(t, gap, 1.0-1e-9)
}

func TestTrafficLight(t *testing.T) {
	ctx, recorder := newContext(t, config.Map{
		Crossroads: []config.Crossroad{{
			ID: 2,
			Phases: []config.Phase{
				{Duration: 10, Directions: []config.Direction{{From: 1, To: 2}}},
				{Duration: 20, Directions: []config.Direction{{From: 3, To: 2}}},
			},
		}},
		Roads: []config.Road{
			{ID: 1, From: 1, To: 2, Length: 100, MaxV: 10, Lanes: 1},
			{ID: 2, From: 2, To: 3, Length: 200, MaxV: 10, Lanes: 1},
			{ID: 3, From: 4, To: 2, Length: 100, MaxV: 10, Lanes: 1},
		},
	})
	c, err := ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)

	steps(ctx, 10)
	assert.Equal(t, int32(1), c.Road().ID())
	assert.InDelta(t, 100, c.S(), 1e-9)

	// 红灯期间停在道路终点
	steps(ctx, 20)
	assert.Equal(t, int32(1), c.Road().ID())
	assert.InDelta(t, 100, c.S(), 1e-9)
	assert.Zero(t, c.V())

	ctx.Step()
	assert.Equal(t, int32(2), c.Road().ID())
	assert.InDelta(t, 10, c.S(), 1e-9)

	steps(ctx, 19)
	trips, _ := recorder.Trips(c.ID())
	require.Len(t, trips, 1)
	assert.InDelta(t, 50, trips[0].Finish, 1e-9)
	require.Len(t, trips[0].Visits, 2)
	assert.InDelta(t, 30, trips[0].Visits[0].Departure, 1e-9)
	assert.InDelta(t, 30, trips[0].Visits[1].Arrival, 1e-9)
}

func TestPriorityStopsBeforeCrossing(t *testing.T) {
	m := func(priorities []config.Priority) config.Map {
		return config.Map{
			Crossroads: []config.Crossroad{{ID: 2, Priorities: priorities}},
			Roads: []config.Road{
				{ID: 1, From: 1, To: 2, Length: 100, MaxV: 10, Lanes: 1},
				{ID: 2, From: 2, To: 3, Length: 200, MaxV: 10, Lanes: 1},
				{ID: 3, From: 4, To: 2, Length: 100, MaxV: 10, Lanes: 1},
			},
		}
	}

	// 无让行规则时在到达路口的同一步驶入下一条道路
	ctx, _ := newContext(t, m(nil))
	c, err := ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)
	steps(ctx, 10)
	assert.Equal(t, int32(2), c.Road().ID())
	assert.Zero(t, c.S())

	// 需要让行时先停在路口前，下一步确认无优先车辆后通过
	ctx, _ = newContext(t, m([]config.Priority{{
		Direction: config.Direction{From: 1, To: 2},
		Priors:    []config.Direction{{From: 3, To: 2}},
	}}))
	c, err = ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)
	steps(ctx, 10)
	assert.Equal(t, int32(1), c.Road().ID())
	assert.InDelta(t, 100, c.S(), 1e-9)
	ctx.Step()
	assert.Equal(t, int32(2), c.Road().ID())
	assert.InDelta(t, 10, c.S(), 1e-9)
}

func TestSelfLoop(t *testing.T) {
	ctx, recorder := newContext(t, config.Map{Roads: []config.Road{
		{ID: 1, From: 1, To: 1, Length: 50, MaxV: 10, Lanes: 1},
		{ID: 2, From: 1, To: 2, Length: 1000, MaxV: 10, Lanes: 1},
	}})
	loop, next := ctx.Net().GetRoad(1), ctx.Net().GetRoad(2)
	c, err := car.New(100, 4, []entity.IRoad{loop, loop, next}, 2, false, 0)
	require.NoError(t, err)
	recorder.CarSpawned(c.ID(), 0)
	require.True(t, loop.TryGetOn(c))

	steps(ctx, 5)
	assert.Equal(t, int32(1), c.Road().ID())
	assert.Zero(t, c.S())
	assert.Equal(t, 1, loop.VehicleCount())

	steps(ctx, 5)
	assert.Equal(t, int32(2), c.Road().ID())
	assert.Zero(t, loop.VehicleCount())
	trips, _ := recorder.Trips(c.ID())
	require.Len(t, trips, 1)
	assert.Equal(t, []stats.RoadVisit{
		{RoadID: 1, Arrival: 0, Departure: 5},
		{RoadID: 1, Arrival: 5, Departure: 10},
		{RoadID: 2, Arrival: 10, Departure: -1},
	}, trips[0].Visits)
}

func TestAvgDuration(t *testing.T) {
	recorder := stats.NewRecorder()
	ctx, err := task.NewContext(config.Config{
		Control: config.Control{Step: config.ControlStep{Total: 1000, Interval: 1}},
		Stats:   config.Stats{TimeConstant: 10},
		Map: config.Map{
			Crossroads: []config.Crossroad{{
				ID: 2,
				Phases: []config.Phase{
					{Duration: 10, Directions: []config.Direction{{From: 1, To: 2}}},
					{Duration: 20, Directions: []config.Direction{{From: 3, To: 2}, {From: 6, To: 2}}},
				},
			}},
			Roads: []config.Road{
				{ID: 1, From: 1, To: 2, Length: 100, MaxV: 10, Lanes: 1},
				{ID: 2, From: 2, To: 3, Length: 200, MaxV: 10, Lanes: 1},
				{ID: 3, From: 4, To: 2, Length: 100, MaxV: 10, Lanes: 1},
				{ID: 5, From: 1, To: 5, Length: 60, MaxV: 10, Lanes: 1},
				{ID: 6, From: 5, To: 2, Length: 60, MaxV: 10, Lanes: 1},
			},
		},
	}, randengine.New(0), recorder)
	require.NoError(t, err)
	require.NoError(t, ctx.Init())
	net := ctx.Net()
	r := net.GetRoad(1)

	route, err := net.LiveRoute(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, roadIDs(route))

	_, err = ctx.Cars().Spawn(1, 3, 4, false)
	require.NoError(t, err)

	// 车辆在t=0驶入，红灯期间一直停留到t=30；第n步结束时停留时间为n+1
	k := math.Exp(-1.0 / 10)
	want := 10.0
	for n := range 30 {
		ctx.Step()
		want = k*want + (1-k)*max(10, float64(n+1))
		require.InDelta(t, want, r.AvgDuration(), 1e-9, "step %d", n)
	}
	assert.Greater(t, r.AvgDuration(), 12.0)
	assert.InDelta(t, 100/want, r.AvgSpeed(), 1e-9)

	// 拥堵道路的平均通行时间超过绕行路线
	route, err = net.LiveRoute(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int32{5, 6}, roadIDs(route))
	route, err = net.Route(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, roadIDs(route))

	// 车辆驶出后道路空闲，目标值回到自由流通行时间
	ctx.Step()
	assert.Zero(t, r.VehicleCount())
	want = k*want + (1-k)*10
	assert.InDelta(t, want, r.AvgDuration(), 1e-9)
	steps(ctx, 300)
	assert.InDelta(t, 10, r.AvgDuration(), 1e-9)
}

func roadIDs(roads []entity.IRoad) []int32 {
	ids := make([]int32, len(roads))
	for i, r := range roads {
		ids[i] = r.ID()
	}
	return ids
}
