package app

// ReadingRing is a circular buffer of recent clamped distances in cm.
type ReadingRing struct {
	buf   []float64
	pos   int
	count int
}

// NewReadingRing creates a new circular buffer with the given capacity.
func NewReadingRing(capacity int) *ReadingRing {
	return &ReadingRing{
		buf: make([]float64, max(capacity, 1)),
	}
}

// Push adds a reading, overwriting the oldest once full.
func (r *ReadingRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored readings in chronological order.
func (r *ReadingRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// Last returns the most recent reading, or 0 if empty.
func (r *ReadingRing) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)]
}

// Len returns the number of stored readings.
func (r *ReadingRing) Len() int {
	return r.count
}
