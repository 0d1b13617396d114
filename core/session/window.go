package session

// WindowSize is the number of power readings kept per session.
const WindowSize = 5

// Window keeps the most recent power readings in receipt order.
type Window struct {
	values []float64
}

// Push appends v and drops the oldest reading once the window is full.
func (w *Window) Push(v float64) {
	w.values = append(w.values, v)
	if n := len(w.values); n > WindowSize {
		w.values = append(w.values[:0], w.values[n-WindowSize:]...)
	}
}

// Values returns a copy of the readings, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}

// Len returns the number of readings held.
func (w *Window) Len() int { return len(w.values) }

// Last returns the newest reading.
func (w *Window) Last() (float64, bool) {
	if len(w.values) == 0 {
		return 0, false
	}
	return w.values[len(w.values)-1], true
}

// Reset drops every reading.
func (w *Window) Reset() { w.values = w.values[:0] }
