package mines

import (
	"slices"
	"time"
)

// MineCounters holds the number of unflagged mines left per weight;
// index i-1 counts weight i.
type MineCounters []int

func NewMineCounters(profile []int) MineCounters {
	return MineCounters(slices.Clone(profile))
}

// Adjust moves one flag count from weight from to weight to. A weight of 0
// means no flag and touches no counter.
func (c MineCounters) Adjust(from, to int) {
	if from > 0 {
		c[from-1]++
	}
	if to > 0 {
		c[to-1]--
	}
}

func (c MineCounters) Remaining(weight int) int {
	return c[weight-1]
}

func (c MineCounters) Reset() {
	clear(c)
}

// Stopwatch counts wall-clock time across start/stop spans.
type Stopwatch struct {
	now     func() time.Time
	started time.Time
	running bool
	total   time.Duration
}

func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.total += s.now().Sub(s.started)
	s.running = false
}

func (s *Stopwatch) Running() bool {
	return s.running
}

func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.total + s.now().Sub(s.started)
	}
	return s.total
}

// Seconds is the elapsed time in whole seconds.
func (s *Stopwatch) Seconds() int {
	return int(s.Elapsed() / time.Second)
}
