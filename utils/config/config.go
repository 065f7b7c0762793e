package config

import (
	"errors"
	"fmt"
)

// MinTick 最小仿真步长（秒）
const MinTick = 0.01

// ErrInvalidSettings 仿真配置不合法
var ErrInvalidSettings = errors.New("invalid settings")

// RuleValues 填充默认值后的交通规则常量
type RuleValues struct {
	MinGap           float64
	YellowMargin     float64
	MinPhaseDuration float64
	MaxPhaseDuration float64
	MaxPhases        int
}

// RuntimeConfig 运行时配置
// 功能：存储填充默认值并通过校验后的配置，仿真过程中只读
type RuntimeConfig struct {
	All     Config     // 全部配置
	C       Control    // 全局控制配置
	Sim     Simulation // 车辆生成与导航配置（已填充车长默认值）
	Rule    RuleValues // 交通规则常量
	Stats   Stats      // 道路统计配置（已填充默认值）
	EndTime float64    // 仿真结束时间（秒）
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：填充默认值并校验
// 参数：config-原始配置对象
// 返回：运行时配置，配置不合法时返回包装了ErrInvalidSettings的错误（可能包含多条）
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{
		All:  config,
		C:    config.Control,
		Sim:  config.Simulation,
		Rule: resolveRule(config.Rule),
	}
	if rc.Sim.Vehicle.MinLength == 0 && rc.Sim.Vehicle.MaxLength == 0 {
		rc.Sim.Vehicle = Vehicle{MinLength: 4, MaxLength: 5}
	}
	rc.Stats = config.Stats
	if rc.Stats.SampleInterval == 0 {
		rc.Stats.SampleInterval = 60
	}
	if rc.Stats.Window == 0 {
		rc.Stats.Window = 20
	}
	if rc.Stats.TimeConstant == 0 {
		rc.Stats.TimeConstant = 300
	}
	step := rc.C.Step
	rc.EndTime = float64(step.Start+step.Total) * step.Interval
	if err := rc.validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

func resolveRule(r Rule) RuleValues {
	v := RuleValues{
		MinGap:           1,
		YellowMargin:     3,
		MinPhaseDuration: 5,
		MaxPhaseDuration: 120,
		MaxPhases:        8,
	}
	if r.MinGap != nil {
		v.MinGap = *r.MinGap
	}
	if r.YellowMargin != nil {
		v.YellowMargin = *r.YellowMargin
	}
	if r.MinPhaseDuration != nil {
		v.MinPhaseDuration = *r.MinPhaseDuration
	}
	if r.MaxPhaseDuration != nil {
		v.MaxPhaseDuration = *r.MaxPhaseDuration
	}
	if r.MaxPhases != nil {
		v.MaxPhases = *r.MaxPhases
	}
	return v
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, args...))
}

// validate 校验配置，返回所有不合法项
func (rc *RuntimeConfig) validate() error {
	var errs []error
	step := rc.C.Step
	if step.Interval < MinTick {
		errs = append(errs, invalid("control.step.interval %v is less than the minimum tick %v", step.Interval, MinTick))
	}
	if step.Start < 0 {
		errs = append(errs, invalid("control.step.start %d is negative", step.Start))
	}
	if step.Total <= 0 {
		errs = append(errs, invalid("control.step.total %d must be positive", step.Total))
	}
	if f := rc.Sim.ActiveNavigationFraction; f < 0 || f > 1 {
		errs = append(errs, invalid("simulation.active_navigation_fraction %v is not in [0,1]", f))
	}
	if len(rc.Sim.Spawn.Frequency) > 0 && rc.Sim.Spawn.BucketDuration <= 0 {
		errs = append(errs, invalid("simulation.spawn.bucket_duration %v must be positive", rc.Sim.Spawn.BucketDuration))
	}
	for i, f := range rc.Sim.Spawn.Frequency {
		if f < 0 {
			errs = append(errs, invalid("simulation.spawn.frequency[%d] %v is negative", i, f))
		}
	}
	if v := rc.Sim.Vehicle; v.MinLength <= 0 || v.MaxLength < v.MinLength {
		errs = append(errs, invalid("simulation.vehicle length range [%v,%v] is invalid", v.MinLength, v.MaxLength))
	}
	r := rc.Rule
	if r.MinGap < 0 {
		errs = append(errs, invalid("rule.min_gap %v is negative", r.MinGap))
	}
	if r.YellowMargin < 0 {
		errs = append(errs, invalid("rule.yellow_margin %v is negative", r.YellowMargin))
	}
	if r.MinPhaseDuration <= 0 || r.MaxPhaseDuration < r.MinPhaseDuration {
		errs = append(errs, invalid("rule phase duration range [%v,%v] is invalid", r.MinPhaseDuration, r.MaxPhaseDuration))
	}
	if r.MaxPhases < 1 {
		errs = append(errs, invalid("rule.max_phases %d must be positive", r.MaxPhases))
	}
	if s := rc.Stats; s.SampleInterval <= 0 || s.Window <= 0 || s.TimeConstant <= 0 {
		errs = append(errs, invalid("stats %+v must be positive", s))
	}
	return errors.Join(errs...)
}
