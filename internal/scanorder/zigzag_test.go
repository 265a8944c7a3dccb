package scanorder

import "testing"

type cell struct{ x, y int }

// walk runs the generator from the initial state until End, failing
// the test if it does not terminate within w*h steps.
func walk(t *testing.T, w, h int) []cell {
	t.Helper()

	var cells []cell
	x, y, s := 0, 0, Initial
	for i := 0; i <= w*h; i++ {
		x, y, s = Next(x, y, w, h, s)
		if s == End {
			return cells
		}
		cells = append(cells, cell{x, y})
	}
	t.Fatalf("%dx%d walk did not reach End after %d steps", w, h, w*h+1)
	return nil
}

func TestNext_3x3Sequence(t *testing.T) {
	want := []cell{
		{0, 0}, {1, 0}, {0, 1}, {0, 2}, {1, 1}, {2, 0}, {2, 1}, {1, 2}, {2, 2},
	}
	got := walk(t, 3, 3)
	if len(got) != len(want) {
		t.Fatalf("3x3 walk visited %d cells, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: got (%d,%d), want (%d,%d)", i, got[i].x, got[i].y, want[i].x, want[i].y)
		}
	}
}

func TestNext_VisitsEveryCellOnce(t *testing.T) {
	grids := []struct{ w, h int }{
		{1, 5}, {5, 1}, {2, 2}, {3, 3}, {4, 3}, {3, 4}, {8, 8}, {7, 2},
	}

	for _, g := range grids {
		seen := make(map[cell]bool)
		for _, c := range walk(t, g.w, g.h) {
			if c.x < 0 || c.x >= g.w || c.y < 0 || c.y >= g.h {
				t.Fatalf("%dx%d: visited out-of-grid cell (%d,%d)", g.w, g.h, c.x, c.y)
			}
			if seen[c] {
				t.Fatalf("%dx%d: cell (%d,%d) visited twice before End", g.w, g.h, c.x, c.y)
			}
			seen[c] = true
		}
		if len(seen) != g.w*g.h {
			t.Errorf("%dx%d: visited %d distinct cells, want %d", g.w, g.h, len(seen), g.w*g.h)
		}
	}
}

// On a 1x1 grid (0,0) is already the bottom-right corner, so the
// corner short-circuit fires on the very first call and no cell is
// ever yielded. Odd, but it is the documented contract.
func TestNext_1x1EndsImmediately(t *testing.T) {
	_, _, s := Next(0, 0, 1, 1, Initial)
	if s != End {
		t.Errorf("first call on 1x1 grid returned state %d, want End", s)
	}
}

func TestNext_BottomRightEndsImmediately(t *testing.T) {
	for _, s := range []State{RightOnTop, DownLeft, UpRight, RightOnBottom, DownOnRight} {
		_, _, next := Next(2, 2, 3, 3, s)
		if next != End {
			t.Errorf("Next(2,2,3,3,%d) state = %d, want End", s, next)
		}
	}
}

func TestNext_EndIsTerminal(t *testing.T) {
	x, y, s := Next(2, 2, 3, 3, End)
	if s != End || x != 2 || y != 2 {
		t.Errorf("Next from End = (%d,%d,%d), want (2,2,End)", x, y, s)
	}
}
