package stress

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// resourceSample is a point-in-time reading of this process's CPU and
// memory usage.
type resourceSample struct {
	cpuPercent float64
	rssBytes   uint64
}

// sampleResources reads the current process's CPU percentage and resident
// set size.
func sampleResources() (resourceSample, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return resourceSample{}, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return resourceSample{}, err
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		return resourceSample{}, err
	}

	return resourceSample{
		cpuPercent: cpuPercent,
		rssBytes:   memory.RSS,
	}, nil
}
