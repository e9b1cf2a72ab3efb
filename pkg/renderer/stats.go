package renderer

import "time"

// WorkerStats describes the work done by a single worker
type WorkerStats struct {
	ID      int
	Rows    int           // Rows in the worker's band
	Pixels  int           // Pixels written
	Samples int           // Camera rays traced
	Elapsed time.Duration // Time from start to done
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Workers      int           // Number of workers used
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera rays traced
	Elapsed      time.Duration // Wall time from start to the last done
	Slowest      time.Duration // Longest single worker time
	PerWorker    []WorkerStats
}

// combineStats aggregates per-worker statistics
func combineStats(workers []WorkerStats, elapsed time.Duration) RenderStats {
	stats := RenderStats{
		Workers:   len(workers),
		Elapsed:   elapsed,
		PerWorker: workers,
	}
	for _, w := range workers {
		stats.TotalPixels += w.Pixels
		stats.TotalSamples += w.Samples
		stats.Slowest = max(stats.Slowest, w.Elapsed)
	}
	return stats
}

// Imbalance returns the ratio of the slowest worker to the mean worker time.
// A perfectly balanced render returns 1.
func (s RenderStats) Imbalance() float64 {
	if len(s.PerWorker) == 0 {
		return 0
	}
	var total time.Duration
	for _, w := range s.PerWorker {
		total += w.Elapsed
	}
	if total == 0 {
		return 1
	}
	mean := float64(total) / float64(len(s.PerWorker))
	return float64(s.Slowest) / mean
}
