// Package bench times repeated full scans with one detector.
package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/csvquery/scanbytes/internal/detect"
	"github.com/csvquery/scanbytes/internal/scan"
)

// Run scans buf attempts times with d, discarding the results, and returns the
// wall-clock duration of each attempt in order.
func Run(buf []byte, d detect.Detector, attempts int, cfg scan.Config) ([]time.Duration, error) {
	samples := make([]time.Duration, 0, max(attempts, 0))
	for i := 0; i < attempts; i++ {
		start := time.Now()
		blocks, err := scan.Scan(buf, d, cfg)
		elapsed := time.Since(start)
		if err != nil {
			return samples, fmt.Errorf("attempt %d: %w", i, err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Debug("benchmark attempt", "attempt", i, "elapsed", elapsed, "blocks", len(blocks))
		}
		samples = append(samples, elapsed)
	}
	return samples, nil
}

// Summary aggregates benchmark samples.
type Summary struct {
	Attempts int
	Mean     time.Duration
	StdDev   time.Duration
}

// Summarize returns the mean and population standard deviation of samples.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	var sum, sumSq float64
	for _, s := range samples {
		us := float64(s) / float64(time.Microsecond)
		sum += us
		sumSq += us * us
	}
	n := float64(len(samples))
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		// rounding when all samples are equal
		variance = 0
	}

	return Summary{
		Attempts: len(samples),
		Mean:     time.Duration(mean * float64(time.Microsecond)),
		StdDev:   time.Duration(math.Sqrt(variance) * float64(time.Microsecond)),
	}
}

// String renders the summary in microseconds, e.g. "1234.5 (std=12.3) us".
func (s Summary) String() string {
	return fmt.Sprintf("%.1f (std=%.1f) us", micros(s.Mean), micros(s.StdDev))
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
