package dmr

import (
	"runtime"
	"sync"
)

// chromTask is one chromosome's worth of sites queued for sweeping.
type chromTask struct {
	Seq   int
	Chrom string
	Sites []Site
}

// chromResult holds the regions swept from a single chromosome.
type chromResult struct {
	Seq     int
	Regions []Region
}

// sweepAll sweeps each chromosome on a pool of workers and returns the
// per-chromosome region slices in the order of chroms. Chromosome
// sweeps are independent and read-only with respect to shared input, so
// no locking is needed. If workers is 0, runtime.NumCPU() is used.
func sweepAll(chroms []string, byChrom map[string][]Site, cfg Config, workers int) [][]Region {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(chroms) {
		workers = len(chroms)
	}
	if len(chroms) == 0 {
		return nil
	}

	tasks := make(chan chromTask, len(chroms))
	for i, chrom := range chroms {
		tasks <- chromTask{Seq: i, Chrom: chrom, Sites: byChrom[chrom]}
	}
	close(tasks)

	results := make(chan chromResult, len(chroms))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range tasks {
				results <- chromResult{Seq: t.Seq, Regions: sweepChrom(t.Chrom, t.Sites, cfg)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([][]Region, len(chroms))
	for r := range results {
		ordered[r.Seq] = r.Regions
	}
	return ordered
}
