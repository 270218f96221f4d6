package sim

import (
	"math/rand"
	"time"
)

// Mains describes the zero-cross signal seen by the detector input.
type Mains struct {
	FrequencyHz   float64
	Lead          time.Duration // detector edge precedes the true crossing by this much
	Jitter        time.Duration // uniform ± jitter on every main edge
	Bounces       int           // extra edges after each main edge
	BounceSpacing time.Duration
	Seed          int64
}

// HalfPeriod returns the true half-cycle length.
func (m Mains) HalfPeriod() time.Duration {
	if m.FrequencyHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / (2 * m.FrequencyHz))
}

// edgeSource produces detector edges in time order and remembers the true
// crossings behind them.
type edgeSource struct {
	m         Mains
	rng       *rand.Rand
	half      time.Duration
	origin    time.Duration
	k         int64
	queue     []time.Duration
	crossings []time.Duration
}

func newEdgeSource(m Mains) *edgeSource {
	// Start the first true crossing far enough in that its lead and jitter
	// never push an edge before time zero.
	origin := m.Lead + m.Jitter + time.Millisecond
	return &edgeSource{
		m:      m,
		rng:    rand.New(rand.NewSource(m.Seed)),
		half:   m.HalfPeriod(),
		origin: origin,
	}
}

// peek returns the next edge time without consuming it.
func (s *edgeSource) peek() time.Duration {
	if len(s.queue) == 0 {
		s.fill()
	}
	return s.queue[0]
}

// pop consumes the next edge.
func (s *edgeSource) pop() time.Duration {
	t := s.peek()
	s.queue = s.queue[1:]
	return t
}

func (s *edgeSource) fill() {
	crossing := s.origin + time.Duration(s.k)*s.half
	s.k++
	s.crossings = append(s.crossings, crossing)

	edge := crossing - s.m.Lead
	if s.m.Jitter > 0 {
		edge += time.Duration(s.rng.Int63n(int64(2*s.m.Jitter)+1)) - s.m.Jitter
	}
	s.queue = append(s.queue, edge)
	for i := 1; i <= s.m.Bounces; i++ {
		s.queue = append(s.queue, edge+time.Duration(i)*s.m.BounceSpacing)
	}
}
