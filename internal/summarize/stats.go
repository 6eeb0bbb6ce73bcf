package summarize

import (
	"slices"
	"sync"
	"time"
)

// StatsSnapshot aggregates model call latencies in milliseconds.
type StatsSnapshot struct {
	Count int     `yaml:"count" json:"count"`
	MinMs int64   `yaml:"min_ms" json:"min_ms"`
	MaxMs int64   `yaml:"max_ms" json:"max_ms"`
	AvgMs float64 `yaml:"avg_ms" json:"avg_ms"`
	P50Ms float64 `yaml:"p50_ms" json:"p50_ms"`
	P95Ms float64 `yaml:"p95_ms" json:"p95_ms"`
	P99Ms float64 `yaml:"p99_ms" json:"p99_ms"`
}

type latency struct {
	at time.Time
	ms int64
}

// Stats keeps model call latencies seen within a rolling window.
type Stats struct {
	mu      sync.Mutex
	window  time.Duration
	samples []latency
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// Record adds one call duration. Negative durations count as zero.
func (s *Stats) Record(d time.Duration) {
	ms := max(d.Milliseconds(), 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)
	s.samples = append(s.samples, latency{at: now, ms: ms})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]int64, len(s.samples))
	var sum int64
	for i, l := range s.samples {
		values[i] = l.ms
		sum += l.ms
	}
	slices.Sort(values)

	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(l latency) bool {
		return l.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
