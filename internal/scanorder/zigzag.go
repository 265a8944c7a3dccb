// Package scanorder generates the anti-diagonal ("zig-zag") visiting
// order of a w×h grid, the scan order used by frequency-domain image
// formats.
//
// The generator is a pure state machine: it holds no memory of its
// own. The caller threads the (x, y, state) tuple between calls, which
// makes iteration restartable and safe to interleave with anything
// else, including a second iteration over the same grid.
package scanorder

// State identifies where in the zig-zag pattern the walk currently is.
// The numeric values are part of the scripting contract and must not
// be reordered.
type State int

const (
	Initial State = iota
	RightOnTop
	DownLeft
	DownOnLeft
	UpRight
	DownOnRight
	RightOnBottom

	End State = -1
)

// Next advances the walk over a w×h grid by exactly one cell.
//
// The very first call passes (0, 0, Initial); every later call passes
// back the triple returned by the previous one. Once the walk has
// yielded the bottom-right corner the next call returns End, and End
// is terminal. Several internal transitions may resolve silently
// within one call, but each call moves the visible coordinate at most
// one step along one axis.
func Next(x, y, w, h int, s State) (int, int, State) {
	if y == h-1 && x == w-1 {
		s = End
	}
	for again := true; again; {
		again = false
		switch s {
		case Initial:
			x, y = 0, 0
			s = RightOnTop
		case RightOnTop:
			if x == w-1 {
				s = DownOnRight
				again = true
				break
			}
			x++
			s = DownLeft
		case DownLeft:
			if y == h-1 {
				s = RightOnBottom
				again = true
				break
			}
			if x == 0 {
				s = DownOnLeft
				again = true
				break
			}
			x--
			y++
			// state is maintained while descending the diagonal
		case DownOnLeft:
			if y == h-1 {
				s = RightOnBottom
				again = true
				break
			}
			y++
			s = UpRight
		case UpRight:
			if x == w-1 {
				s = DownOnRight
				again = true
				break
			}
			if y == 0 {
				s = RightOnTop
				again = true
				break
			}
			x++
			y--
			// state is maintained while climbing the diagonal
		case DownOnRight:
			if y == h-1 {
				s = End
				again = true
				break
			}
			y++
			s = DownLeft
		case RightOnBottom:
			if x == w-1 {
				s = End
				again = true
				break
			}
			x++
			s = UpRight
		case End:
		}
	}
	return x, y, s
}
