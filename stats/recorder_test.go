package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/stats"
)

var _ entity.IStatistics = (*stats.Recorder)(nil)

func TestRecorder(t *testing.T) {
	r := stats.NewRecorder()
	r.CarSpawned(1, 0)
	r.CarSpawned(2, 5)
	r.CarEnteredRoad(1, 10, 1)
	r.CarLeftRoad(1, 10, 11)
	r.CarEnteredRoad(1, 11, 11)
	r.CarLeftRoad(1, 11, 20)
	r.CarFinished(1, 20)
	r.CarEnteredRoad(2, 10, 6)
	r.RoadSampled(entity.RoadSample{RoadID: 10, T: 60, VehicleCount: 1})

	trips, failed := r.Trips(1, 3)
	require.Len(t, trips, 1)
	assert.Equal(t, []int32{3}, failed)
	assert.Equal(t, []stats.RoadVisit{
		{RoadID: 10, Arrival: 1, Departure: 11},
		{RoadID: 11, Arrival: 11, Departure: 20},
	}, trips[0].Visits)

	all, _ := r.Trips()
	assert.Len(t, all, 2)
	assert.Equal(t, -1.0, all[1].Visits[0].Departure)

	s := r.Summary()
	assert.Equal(t, stats.Summary{Spawned: 2, Finished: 1, AvgTravelTime: 20, RoadSamples: 1}, s)
	assert.Len(t, r.RoadSamples(10), 1)

	assert.Panics(t, func() { r.CarLeftRoad(2, 11, 30) })
	assert.Panics(t, func() { r.CarFinished(9, 30) })
}
