package internal

import "time"

// RunStats counters for one probe run.
type RunStats struct {
	start     time.Time
	LinesRead int64
	Matches   int64
}

func (s *RunStats) Start() {
	s.start = time.Now()
}

func (s *RunStats) Elapsed() time.Duration {
	return time.Since(s.start)
}
