package app

// ProximityRing keeps the most recent proximity samples for the sparkline.
type ProximityRing struct {
	samples []float64
	next    int
	full    bool
	peak    float64
}

// NewProximityRing creates a ring holding up to size samples.
func NewProximityRing(size int) *ProximityRing {
	return &ProximityRing{samples: make([]float64, size)}
}

// Push records a sample, overwriting the oldest once the ring is full.
func (r *ProximityRing) Push(p float64) {
	r.samples[r.next] = p
	r.next++
	if r.next == len(r.samples) {
		r.next, r.full = 0, true
	}
	if p > r.peak {
		r.peak = p
	}
}

// Values returns the samples oldest first.
func (r *ProximityRing) Values() []float64 {
	if !r.full {
		if r.next == 0 {
			return nil
		}
		return append([]float64(nil), r.samples[:r.next]...)
	}
	out := make([]float64, 0, len(r.samples))
	out = append(out, r.samples[r.next:]...)
	return append(out, r.samples[:r.next]...)
}

// Last returns the newest sample, or 0 when empty.
func (r *ProximityRing) Last() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.samples[(r.next+len(r.samples)-1)%len(r.samples)]
}

// Len returns how many samples are held.
func (r *ProximityRing) Len() int {
	if r.full {
		return len(r.samples)
	}
	return r.next
}

// Peak is the highest sample since the last Reset, including samples that
// have scrolled out.
func (r *ProximityRing) Peak() float64 {
	return r.peak
}

// Reset forgets every sample.
func (r *ProximityRing) Reset() {
	r.next, r.full, r.peak = 0, false, 0
}
