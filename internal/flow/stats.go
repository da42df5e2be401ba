package flow

import "math"

// running accumulates a series as rolling sums so per-flow memory stays O(1)
// regardless of packet count. All query methods report 0 on an empty series.
// Std is the population standard deviation (divisor N).
type running struct {
	n     uint64
	sum   float64
	sumSq float64
	lo    float64
	hi    float64
}

func (r *running) push(v float64) {
	if r.n == 0 || v < r.lo {
		r.lo = v
	}
	if r.n == 0 || v > r.hi {
		r.hi = v
	}
	r.n++
	r.sum += v
	r.sumSq += v * v
}

func (r *running) count() uint64 { return r.n }

func (r *running) total() float64 { return r.sum }

func (r *running) min() float64 { return r.lo }

func (r *running) max() float64 { return r.hi }

func (r *running) mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}

func (r *running) variance() float64 {
	if r.n == 0 {
		return 0
	}
	m := r.mean()
	v := r.sumSq/float64(r.n) - m*m
	// rolling sums can push this epsilon-negative
	if v < 0 {
		v = 0
	}
	return v
}

func (r *running) std() float64 {
	return math.Sqrt(r.variance())
}
