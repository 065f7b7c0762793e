package stats

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils"
)

// RoadVisit 车辆在一条道路上的驶入/驶出时刻，尚未驶出时Departure为-1
type RoadVisit struct {
	RoadID    int32
	Arrival   float64
	Departure float64
}

// Trip 单辆车的行程记录，尚未完成时Finish为-1
type Trip struct {
	CarID  int32
	Spawn  float64
	Finish float64
	Visits []RoadVisit
}

// Summary 统计汇总
type Summary struct {
	Spawned       int
	Finished      int
	AvgTravelTime float64 // 已完成行程的平均时长
	RoadSamples   int
}

// Recorder 默认的统计输出实现
// 功能：在内存中记录每辆车的行程与每条道路的周期采样，结束时输出汇总日志
// 说明：非并发安全，所有事件都由仿真驱动串行产生
type Recorder struct {
	trips   map[int32]*Trip
	order   []*Trip
	samples map[int32][]entity.RoadSample
}

// NewRecorder 创建统计记录器
func NewRecorder() *Recorder {
	return &Recorder{
		trips:   make(map[int32]*Trip),
		order:   make([]*Trip, 0),
		samples: make(map[int32][]entity.RoadSample),
	}
}

func (r *Recorder) CarSpawned(carID int32, t float64) {
	trip := &Trip{CarID: carID, Spawn: t, Finish: -1, Visits: make([]RoadVisit, 0)}
	r.trips[carID] = trip
	r.order = append(r.order, trip)
}

func (r *Recorder) CarEnteredRoad(carID, roadID int32, t float64) {
	trip := r.trip(carID)
	trip.Visits = append(trip.Visits, RoadVisit{RoadID: roadID, Arrival: t, Departure: -1})
}

func (r *Recorder) CarLeftRoad(carID, roadID int32, t float64) {
	trip := r.trip(carID)
	if len(trip.Visits) == 0 || trip.Visits[len(trip.Visits)-1].RoadID != roadID {
		log.Panicf("car %d leaves road %d without entering it", carID, roadID)
	}
	trip.Visits[len(trip.Visits)-1].Departure = t
}

func (r *Recorder) CarFinished(carID int32, t float64) {
	r.trip(carID).Finish = t
}

func (r *Recorder) RoadSampled(sample entity.RoadSample) {
	r.samples[sample.RoadID] = append(r.samples[sample.RoadID], sample)
}

func (r *Recorder) trip(carID int32) *Trip {
	trip, ok := r.trips[carID]
	if !ok {
		log.Panicf("no trip of car %d", carID)
	}
	return trip
}

// Trips 按车辆id查找行程，ids为空时返回全部行程（按生成顺序）
func (r *Recorder) Trips(ids ...int32) ([]*Trip, []int32) {
	return utils.Find(r.trips, r.order, ids)
}

// RoadSamples 道路的全部采样
func (r *Recorder) RoadSamples(roadID int32) []entity.RoadSample {
	return r.samples[roadID]
}

// Summary 统计汇总
func (r *Recorder) Summary() Summary {
	finished := lo.Filter(r.order, func(t *Trip, _ int) bool { return t.Finish >= 0 })
	s := Summary{
		Spawned:     len(r.order),
		Finished:    len(finished),
		RoadSamples: lo.Sum(lo.Map(lo.Values(r.samples), func(s []entity.RoadSample, _ int) int { return len(s) })),
	}
	if len(finished) > 0 {
		s.AvgTravelTime = lo.SumBy(finished, func(t *Trip) float64 { return t.Finish - t.Spawn }) / float64(len(finished))
	}
	return s
}

// LogSummary 输出汇总日志
func (r *Recorder) LogSummary() {
	s := r.Summary()
	log.Infof("spawned: %d, finished: %d, avg travel time: %.2fs, road samples: %d",
		s.Spawned, s.Finished, s.AvgTravelTime, s.RoadSamples)
}
