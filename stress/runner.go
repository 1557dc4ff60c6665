// Package stress drives concurrent allocation workloads against the
// process-wide allocator and verifies that no identifier repeats.
package stress

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/runid"
)

// Report summarizes one stress run. Its fields are flat scalars so a
// report can be handed to a datarecording.DataRecorder as a row.
type Report struct {
	Allocators     int
	PerAllocator   int
	TotalIDs       int
	DistinctIDs    int
	DuplicateIDs   int
	ElapsedSeconds float64
	IDsPerSecond   float64
	CPUPercent     float64
	MemoryRSSBytes uint64
}

// RunnerBuilder configures and creates Runners.
type RunnerBuilder struct {
	allocators   int
	perAllocator int
}

// MakeRunnerBuilder creates a RunnerBuilder with the default workload of 8
// allocators each drawing 10000 IDs.
func MakeRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{
		allocators:   8,
		perAllocator: 10000,
	}
}

// WithAllocators sets the number of goroutines that draw IDs.
func (b RunnerBuilder) WithAllocators(n int) RunnerBuilder {
	b.allocators = n
	return b
}

// WithCountPerAllocator sets how many IDs each goroutine draws.
func (b RunnerBuilder) WithCountPerAllocator(n int) RunnerBuilder {
	b.perAllocator = n
	return b
}

func (b RunnerBuilder) parametersMustBeValid() {
	if b.allocators <= 0 {
		panic("stress: allocator count must be positive")
	}

	if b.perAllocator <= 0 {
		panic("stress: per-allocator count must be positive")
	}
}

// Build creates the Runner.
func (b RunnerBuilder) Build() *Runner {
	b.parametersMustBeValid()

	return &Runner{
		allocators:   b.allocators,
		perAllocator: b.perAllocator,
	}
}

// Runner drives one allocation workload.
type Runner struct {
	allocators   int
	perAllocator int
}

// Run spawns the configured goroutines, lets each draw its batch of IDs,
// and reports how many distinct IDs came back, together with throughput
// and process resource usage. Run observes IDs only through their public
// surface; it has no access to the allocator's counter.
func (r *Runner) Run() (Report, error) {
	batches := make([][]runid.ID, r.allocators)

	start := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < r.allocators; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()

			batch := make([]runid.ID, 0, r.perAllocator)
			for i := 0; i < r.perAllocator; i++ {
				batch = append(batch, runid.New())
			}

			batches[g] = batch
		}(g)
	}
	wg.Wait()

	elapsed := time.Since(start)

	total := r.allocators * r.perAllocator
	seen := make(map[runid.ID]struct{}, total)
	for _, batch := range batches {
		for _, id := range batch {
			seen[id] = struct{}{}
		}
	}

	report := Report{
		Allocators:     r.allocators,
		PerAllocator:   r.perAllocator,
		TotalIDs:       total,
		DistinctIDs:    len(seen),
		DuplicateIDs:   total - len(seen),
		ElapsedSeconds: elapsed.Seconds(),
		IDsPerSecond:   float64(total) / elapsed.Seconds(),
	}

	sample, err := sampleResources()
	if err != nil {
		return Report{}, fmt.Errorf("stress: sampling process resources: %w", err)
	}

	report.CPUPercent = sample.cpuPercent
	report.MemoryRSSBytes = sample.rssBytes

	return report, nil
}
