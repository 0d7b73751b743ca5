package tensor

import "fmt"

// Slice selects positions along one axis, like Python's start:stop:step.
//
// Negative start/stop count from the end of the axis. Bounds are never
// clamped: a start or stop outside the axis fails with ErrIndex.
//
// Example:
//
//	v, _ := a.Slice(tensor.Span(1, 3), tensor.Reverse()) // a[1:3, ::-1]
//	r, _ := a.Slice(tensor.Pick(0))                      // a[0]
type Slice struct {
	start, stop, step int
	hasStart, hasStop bool
	pick              bool
}

// All selects the whole axis.
func All() Slice { return Slice{step: 1} }

// Span selects [start, stop).
func Span(start, stop int) Slice {
	return Slice{start: start, stop: stop, step: 1, hasStart: true, hasStop: true}
}

// SpanStep selects start, start+step, ... up to (excluding) stop.
func SpanStep(start, stop, step int) Slice {
	return Slice{start: start, stop: stop, step: step, hasStart: true, hasStop: true}
}

// From selects [start, end).
func From(start int) Slice { return Slice{start: start, step: 1, hasStart: true} }

// To selects [0, stop).
func To(stop int) Slice { return Slice{stop: stop, step: 1, hasStop: true} }

// Step selects every step-th position of the whole axis; a negative step
// walks it backwards.
func Step(step int) Slice { return Slice{step: step} }

// Reverse selects the whole axis backwards.
func Reverse() Slice { return Slice{step: -1} }

// Pick selects the single position i and drops the axis.
func Pick(i int) Slice { return Slice{start: i, step: 1, hasStart: true, pick: true} }

// String formats the slice in Python notation.
func (s Slice) String() string {
	if s.pick {
		return fmt.Sprint(s.start)
	}
	str := ""
	if s.hasStart {
		str += fmt.Sprint(s.start)
	}
	str += ":"
	if s.hasStop {
		str += fmt.Sprint(s.stop)
	}
	if s.step != 1 {
		str += ":" + fmt.Sprint(s.step)
	}
	return str
}

// resolve computes the first position, the number of selected positions and
// the step for an axis of extent n.
func (s Slice) resolve(n int) (start, length, step int, err error) {
	outOfRange := func(v int) error {
		return &IndexError{Op: "slice " + s.String(), Index: []int{v}, Shape: Shape{n}, Axis: 0}
	}
	if s.pick {
		i := s.start
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return 0, 0, 0, outOfRange(s.start)
		}
		return i, 1, 1, nil
	}

	step = s.step
	if step == 0 {
		return 0, 0, 0, &InvalidArgumentError{Op: "slice", Detail: "step must not be zero"}
	}

	norm := func(v int) int {
		if v < 0 {
			return v + n
		}
		return v
	}

	if step > 0 {
		start, stop := 0, n
		if s.hasStart {
			start = norm(s.start)
			if start < 0 || start > n {
				return 0, 0, 0, outOfRange(s.start)
			}
		}
		if s.hasStop {
			stop = norm(s.stop)
			if stop < 0 || stop > n {
				return 0, 0, 0, outOfRange(s.stop)
			}
		}
		if stop <= start {
			return start, 0, step, nil
		}
		return start, (stop - start + step - 1) / step, step, nil
	}

	// Negative step: start defaults to the last position, stop to "before 0".
	start, stop := n-1, -1
	if s.hasStart {
		start = norm(s.start)
		if start < 0 || start >= n {
			return 0, 0, 0, outOfRange(s.start)
		}
	}
	if s.hasStop {
		stop = norm(s.stop)
		if stop < 0 || stop >= n {
			return 0, 0, 0, outOfRange(s.stop)
		}
	}
	if start <= stop {
		return max(start, 0), 0, step, nil
	}
	return start, (start - stop - step - 1) / -step, step, nil
}
