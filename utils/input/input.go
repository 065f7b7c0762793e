package input

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/crossroad/trafficlight"
	"github.com/tsinghua-fib-lab/roadnet-sim/entity/roadnet"
	"github.com/tsinghua-fib-lab/roadnet-sim/utils/config"
)

// ErrInvalidMap 地图配置不合法
var ErrInvalidMap = errors.New("invalid map")

func direction(d config.Direction) entity.Direction {
	return entity.Direction{From: d.From, To: d.To}
}

func directions(ds []config.Direction) []entity.Direction {
	return lo.Map(ds, func(d config.Direction, _ int) entity.Direction { return direction(d) })
}

// Build 按地图配置构建路网
// 功能：依次加入路口、道路，设置道路通车状态，最后设置路口的相位与让行规则
// 参数：net-空路网，m-地图配置
// 返回：重复的路口、被拒绝的道路都会返回包装了ErrInvalidMap的错误（合并返回所有问题）
// 说明：路口控制方式在路网Init时才确定，此处只保存配置
func Build(net *roadnet.RoadNet, m config.Map) error {
	errs := make([]error, 0)
	for _, c := range m.Crossroads {
		if !net.AddCrossroad(c.ID) {
			errs = append(errs, fmt.Errorf("%w: duplicate crossroad %d", ErrInvalidMap, c.ID))
		}
	}
	for _, r := range m.Roads {
		ok := net.AddRoad(roadnet.RoadConfig{
			ID:     r.ID,
			From:   r.From,
			To:     r.To,
			Length: r.Length,
			MaxV:   r.MaxV,
			Lanes:  int(r.Lanes),
		})
		if !ok {
			errs = append(errs, fmt.Errorf("%w: road %+v is rejected", ErrInvalidMap, r))
			continue
		}
		if r.Connected != nil && !*r.Connected {
			net.SetRoadConnected(r.ID, false)
		}
	}
	for _, c := range m.Crossroads {
		cr, err := net.GetCrossroadOrError(c.ID)
		if err != nil {
			continue
		}
		cr.SetPhases(lo.Map(c.Phases, func(p config.Phase, _ int) trafficlight.Setting {
			return trafficlight.Setting{Duration: p.Duration, Directions: directions(p.Directions)}
		}))
		for _, p := range c.Priorities {
			cr.SetPriority(direction(p.Direction), directions(p.Priors))
		}
	}
	log.Infof("Crossroad: %d", net.NodeCount())
	log.Infof("Road: %d", net.EdgeCount())
	return errors.Join(errs...)
}
