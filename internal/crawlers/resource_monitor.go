package crawlers

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitor 根据系统资源估算可以同时打开的标签页数
type ResourceMonitor struct {
	config ResourceMonitorConfig

	// 采样函数,测试时替换
	virtualMemory func() (*mem.VirtualMemoryStat, error)
	cpuCounts     func(logical bool) (int, error)
}

// ResourceMonitorConfig 资源监控器配置
type ResourceMonitorConfig struct {
	SafetyReserveMemory int64 // 安全保留内存(字节)
	TabMemoryUsage      int64 // 单个标签页平均内存消耗(字节)
	MaxTabsLimit        int   // 绝对最大标签页数
}

// DefaultResourceMonitorConfig 默认配置: 保留512MB,每个标签页按150MB估算
func DefaultResourceMonitorConfig(maxTabs int) ResourceMonitorConfig {
	return ResourceMonitorConfig{
		SafetyReserveMemory: 512 * 1024 * 1024,
		TabMemoryUsage:      150 * 1024 * 1024,
		MaxTabsLimit:        maxTabs,
	}
}

// NewResourceMonitor 创建资源监控器实例
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	if config.TabMemoryUsage <= 0 {
		config.TabMemoryUsage = 150 * 1024 * 1024
	}
	if config.MaxTabsLimit < 1 {
		config.MaxTabsLimit = 1
	}
	return &ResourceMonitor{
		config:        config,
		virtualMemory: mem.VirtualMemory,
		cpuCounts:     cpu.Counts,
	}
}

// CalculateMaxTabs 计算当前允许的最大标签页数
// 取 可用内存 / 单页内存、逻辑CPU数、配置上限 三者的最小值,至少为1
func (rm *ResourceMonitor) CalculateMaxTabs() int {
	result := rm.config.MaxTabsLimit

	if vm, err := rm.virtualMemory(); err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败,按配置上限计算")
	} else {
		available := int64(vm.Available) - rm.config.SafetyReserveMemory
		byMemory := int(available / rm.config.TabMemoryUsage)
		if byMemory < result {
			result = byMemory
		}
		log.Debug().
			Float64("available_gb", float64(vm.Available)/(1024*1024*1024)).
			Int("tabs_by_memory", byMemory).
			Msg("内存评估完成")
	}

	if n, err := rm.cpuCounts(true); err == nil && n > 0 && n < result {
		result = n
	}

	if result < 1 {
		result = 1
	}
	return result
}
