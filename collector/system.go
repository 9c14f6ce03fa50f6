package collector

import (
	"procview/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// PrimeCPUSampling takes the initial CPU reading so that later
// non-blocking calls return the average since the previous call instead
// of zero. Call once at startup.
func PrimeCPUSampling() {
	_, _ = cpu.Percent(0, false)
}

// SystemMetrics samples host CPU and memory utilization without
// blocking: interval zero returns the usage since the last call.
func SystemMetrics() models.SystemMetrics {
	metrics := models.SystemMetrics{}
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		metrics.CPUPercent = percent[0]
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		metrics.MemoryPercent = memInfo.UsedPercent
	}
	return metrics
}
