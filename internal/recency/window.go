// Package recency provides the bounded and unbounded recency trackers used
// by the library: a fixed-size most-recent-first window and the playback
// history stack.
package recency

const (
	SkipWindowSize          = 10
	RecentlyAddedWindowSize = 15
)

// Window is a fixed-capacity ring of distinct values ordered
// most-recent-first. Touching a value already present moves it to the
// front; overflowing evicts the oldest value.
type Window[T comparable] struct {
	buf   []T
	start int // slot of the most recent value
	size  int
}

// NewWindow creates a window holding at most capacity values. A capacity
// below one is raised to one.
func NewWindow[T comparable](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{
		buf: make([]T, capacity),
	}
}

// Touch records v as the most recent value. It returns the evicted value,
// if any.
func (w *Window[T]) Touch(v T) (evicted T, ok bool) {
	if i := w.indexOf(v); i >= 0 {
		w.removeAt(i)
	} else if w.size == len(w.buf) {
		evicted, ok = w.at(w.size-1), true
		w.removeAt(w.size - 1)
	}

	w.start = (w.start - 1 + len(w.buf)) % len(w.buf)
	w.buf[w.start] = v
	w.size++
	return evicted, ok
}

// Remove drops v from the window if present.
func (w *Window[T]) Remove(v T) bool {
	i := w.indexOf(v)
	if i < 0 {
		return false
	}
	w.removeAt(i)
	return true
}

func (w *Window[T]) Contains(v T) bool {
	return w.indexOf(v) >= 0
}

// Snapshot returns up to limit values, most recent first. A negative limit
// means no limit.
func (w *Window[T]) Snapshot(limit int) []T {
	n := w.size
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = w.at(i)
	}
	return out
}

// Filter returns up to limit values matching keep, in recency order.
func (w *Window[T]) Filter(keep func(T) bool, limit int) []T {
	out := make([]T, 0)
	if limit == 0 {
		return out
	}
	for i := 0; i < w.size; i++ {
		if v := w.at(i); keep(v) {
			out = append(out, v)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Front returns the most recent value.
func (w *Window[T]) Front() (T, bool) {
	if w.size == 0 {
		var zero T
		return zero, false
	}
	return w.at(0), true
}

func (w *Window[T]) Clear() {
	var zero T
	for i := range w.buf {
		w.buf[i] = zero
	}
	w.start = 0
	w.size = 0
}

func (w *Window[T]) Len() int {
	return w.size
}

func (w *Window[T]) Cap() int {
	return len(w.buf)
}

func (w *Window[T]) at(i int) T {
	return w.buf[(w.start+i)%len(w.buf)]
}

func (w *Window[T]) indexOf(v T) int {
	for i := 0; i < w.size; i++ {
		if w.at(i) == v {
			return i
		}
	}
	return -1
}

// removeAt closes the gap at logical index i by shifting the older values
// one slot towards the front.
func (w *Window[T]) removeAt(i int) {
	for j := i; j < w.size-1; j++ {
		w.buf[(w.start+j)%len(w.buf)] = w.at(j + 1)
	}
	var zero T
	w.buf[(w.start+w.size-1)%len(w.buf)] = zero
	w.size--
}
