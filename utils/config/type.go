package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：模拟区间为[Start, Start+Total)步，每步Interval秒
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒），不小于MinTick
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Spawn 车辆生成频率配置
// 说明：Frequency[i]为第i个时间段内每秒生成的车辆数，时间段长度为BucketDuration，超出末尾后循环
type Spawn struct {
	BucketDuration float64   `yaml:"bucket_duration"` // 时间段长度（秒）
	Frequency      []float64 `yaml:"frequency"`       // 各时间段的生成频率（辆/秒）
}

// Vehicle 车辆属性配置，车长在[MinLength, MaxLength]内均匀分布
type Vehicle struct {
	MinLength float64 `yaml:"min_length,omitempty"` // 默认4m
	MaxLength float64 `yaml:"max_length,omitempty"` // 默认5m
}

// Simulation 仿真行为配置
type Simulation struct {
	Seed                     uint64  `yaml:"seed"`                       // 随机数种子
	ActiveNavigationFraction float64 `yaml:"active_navigation_fraction"` // 主动导航车辆比例，[0,1]
	Spawn                    Spawn   `yaml:"spawn"`
	Vehicle                  Vehicle `yaml:"vehicle,omitempty"`
}

// Rule 交通规则中可调的常量，未设置的项使用默认值
type Rule struct {
	MinGap           *float64 `yaml:"min_gap,omitempty"`            // 最小跟车间距（米），默认1
	YellowMargin     *float64 `yaml:"yellow_margin,omitempty"`      // 黄灯余量（秒），默认3
	MinPhaseDuration *float64 `yaml:"min_phase_duration,omitempty"` // 信号灯相位最短时长（秒），默认5
	MaxPhaseDuration *float64 `yaml:"max_phase_duration,omitempty"` // 信号灯相位最长时长（秒），默认120
	MaxPhases        *int     `yaml:"max_phases,omitempty"`         // 信号灯最大相位数，默认8
}

// Stats 道路统计配置
type Stats struct {
	SampleInterval float64 `yaml:"sample_interval,omitempty"` // 道路采样间隔（秒），默认60
	Window         int     `yaml:"window,omitempty"`          // 通行时长窗口大小（辆），默认20
	TimeConstant   float64 `yaml:"time_constant,omitempty"`   // 平均通行时长的指数平滑时间常数（秒），默认300
}

// Direction 路口转向（驶入道路->驶出道路）
type Direction struct {
	From int32 `yaml:"from"`
	To   int32 `yaml:"to"`
}

// Phase 信号灯相位
type Phase struct {
	Duration   float64     `yaml:"duration"`   // 相位时长（秒）
	Directions []Direction `yaml:"directions"` // 该相位放行的转向
}

// Priority 让行规则：Priors中的转向有车等待时，Direction需要让行
type Priority struct {
	Direction Direction   `yaml:"direction"`
	Priors    []Direction `yaml:"priors"`
}

// Crossroad 路口配置
// 说明：相位数大于1时使用信号灯控制，否则为无信号路口并使用Priorities
type Crossroad struct {
	ID         int32      `yaml:"id"`
	Phases     []Phase    `yaml:"phases,omitempty"`
	Priorities []Priority `yaml:"priorities,omitempty"`
}

// Road 道路配置
type Road struct {
	ID        int32   `yaml:"id"`
	From      int32   `yaml:"from"`                // 起点路口
	To        int32   `yaml:"to"`                  // 终点路口
	Length    float64 `yaml:"length"`              // 长度（米）
	MaxV      float64 `yaml:"max_v"`               // 限速（米/秒）
	Lanes     int32   `yaml:"lanes"`               // 车道数，1~3
	Connected *bool   `yaml:"connected,omitempty"` // 是否通车，默认true，false表示施工中
}

// Map 地图配置
// 说明：道路的端点路口可以不在Crossroads中声明，加入道路时自动创建
type Map struct {
	Crossroads []Crossroad `yaml:"crossroads"`
	Roads      []Road      `yaml:"roads"`
}

// Config YAML配置文件的根结构
type Config struct {
	Control    Control    `yaml:"control"`        // 模拟过程控制
	Simulation Simulation `yaml:"simulation"`     // 车辆生成与导航
	Rule       Rule       `yaml:"rule,omitempty"` // 交通规则常量
	Stats      Stats      `yaml:"stats,omitempty"`
	Map        Map        `yaml:"map"`
}
