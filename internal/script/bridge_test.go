package script

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/QtLab/Borderless/internal/imagestore"
	"github.com/QtLab/Borderless/internal/orient"
)

type box struct {
	title, body string
	isError     bool
}

// recordingHost captures everything a script pushes at the viewer.
type recordingHost struct {
	boxes       []box
	debug       []string
	displayed   []int
	displayErr  error
	caller      int
	callerCalls int
	orientation orient.Orientation
	zoom        float64
}

func (h *recordingHost) DisplayInCurrentWindow(handle int) error {
	if h.displayErr != nil {
		return h.displayErr
	}
	h.displayed = append(h.displayed, handle)
	return nil
}

func (h *recordingHost) CallerImage() int {
	h.callerCalls++
	return h.caller
}

func (h *recordingHost) MessageBox(title, body string, isError bool) {
	h.boxes = append(h.boxes, box{title, body, isError})
}

func (h *recordingHost) DebugPrint(text string) { h.debug = append(h.debug, text) }

func (h *recordingHost) Orientation() orient.Orientation { return h.orientation }

func (h *recordingHost) SetOrientation(o orient.Orientation) { h.orientation = o }

func (h *recordingHost) Zoom() float64 { return h.zoom }

func (h *recordingHost) SetZoom(z float64) { h.zoom = z }

func (h *recordingHost) AutoZoom() bool { return true }

func newTestInterpreter(t *testing.T, opts Options) (*Interpreter, *recordingHost) {
	t.Helper()
	host := &recordingHost{caller: -1}
	in := New(imagestore.New(), host, opts)
	t.Cleanup(in.Close)
	return in, host
}

// global reads a Lua global as a float; fails if it is not a number.
func global(t *testing.T, in *Interpreter, name string) float64 {
	t.Helper()
	v := in.state.GetGlobal(name)
	if v.Type() != lua.LTNumber {
		t.Fatalf("global %q = %v (%s), want a number", name, v, v.Type())
	}
	return float64(v.(lua.LNumber))
}

func globalString(t *testing.T, in *Interpreter, name string) string {
	t.Helper()
	v := in.state.GetGlobal(name)
	if v.Type() != lua.LTString {
		t.Fatalf("global %q = %v (%s), want a string", name, v, v.Type())
	}
	return string(v.(lua.LString))
}

func mustRun(t *testing.T, in *Interpreter, source string) {
	t.Helper()
	if err := in.Run(source); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRun_AllocateTraverseGetPixel(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		img = allocate_image(2, 2)
		w, h = get_image_dimensions(img)
		traverse_image(img, function(r, g, b, a, x, y)
			set_current_pixel(255, 0, 0, 255)
		end)
		r, g, b, a = get_pixel(img, 1, 1)
	`)

	if len(host.boxes) != 0 {
		t.Fatalf("unexpected error reports: %+v", host.boxes)
	}
	if w, h := global(t, in, "w"), global(t, in, "h"); w != 2 || h != 2 {
		t.Errorf("dimensions = (%v,%v), want (2,2)", w, h)
	}
	for name, want := range map[string]float64{"r": 255, "g": 0, "b": 0, "a": 255} {
		if got := global(t, in, name); got != want {
			t.Errorf("channel %s = %v, want %v", name, got, want)
		}
	}

	// The store saw the same writes.
	p, err := in.Store().Pixel(int(global(t, in, "img")), 0, 0)
	if err != nil {
		t.Fatalf("Pixel failed: %v", err)
	}
	if p != (imagestore.Pixel{255, 0, 0, 255}) {
		t.Errorf("stored pixel = %v", p)
	}
}

func TestRun_FailureConvention(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `h, msg = load_image("/no/such/file.png")`)

	if v := in.state.GetGlobal("h"); v != lua.LNil {
		t.Errorf("failed load returned %v, want nil", v)
	}
	if msg := globalString(t, in, "msg"); !strings.Contains(msg, "file not found") {
		t.Errorf("failure message = %q", msg)
	}
	if len(host.boxes) != 1 {
		t.Fatalf("got %d reports, want 1", len(host.boxes))
	}
	b := host.boxes[0]
	if !b.isError || b.title != "Error executing Lua script." {
		t.Errorf("report = %+v", b)
	}
	if !strings.Contains(b.body, "load_image()") || !strings.Contains(b.body, "ERROR at line 1") {
		t.Errorf("report body = %q", b.body)
	}
}

func TestRun_ReportsScriptLine(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, "x = 1\nx = x + 1\nunload_image(42)\n")

	if len(host.boxes) != 1 {
		t.Fatalf("got %d reports, want 1", len(host.boxes))
	}
	if body := host.boxes[0].body; !strings.Contains(body, "ERROR at line 3 calling function unload_image()") {
		t.Errorf("report body = %q", body)
	}
}

func TestRun_ValidationRejectsBadTypes(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `img = allocate_image("2", "2")`)

	if v := in.state.GetGlobal("img"); v != lua.LNil {
		t.Errorf("allocate with string args returned %v, want nil", v)
	}
	if len(host.boxes) != 1 || !strings.Contains(host.boxes[0].body, "Both parameters must be integers.") {
		t.Errorf("reports = %+v", host.boxes)
	}
}

func TestRun_MinimizeCheckingSkipsValidation(t *testing.T) {
	in, host := newTestInterpreter(t, Options{MinimizeChecking: true})

	// Lua coerces the numeric strings once validation is out of the way.
	mustRun(t, in, `
		img = allocate_image("2", "2")
		w, h = get_image_dimensions(img)
	`)

	if len(host.boxes) != 0 {
		t.Fatalf("unexpected reports: %+v", host.boxes)
	}
	if w, h := global(t, in, "w"), global(t, in, "h"); w != 2 || h != 2 {
		t.Errorf("dimensions = (%v,%v), want (2,2)", w, h)
	}
}

func TestRun_MinimizeCheckingKeepsRangeChecks(t *testing.T) {
	in, host := newTestInterpreter(t, Options{MinimizeChecking: true})

	mustRun(t, in, `allocate_image(0, 5)`)
	if len(host.boxes) != 1 || !strings.Contains(host.boxes[0].body, "greater than zero") {
		t.Errorf("reports = %+v", host.boxes)
	}
}

func TestRun_GetPixelErrors(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		img = allocate_image(2, 2)
		get_pixel(img, 5, 0)
		get_pixel(img, -1, 0)
		get_pixel(99, 0, 0)
	`)

	if len(host.boxes) != 3 {
		t.Fatalf("got %d reports, want 3: %+v", len(host.boxes), host.boxes)
	}
	if !strings.Contains(host.boxes[0].body, "outside the image") {
		t.Errorf("out-of-range report = %q", host.boxes[0].body)
	}
	if !strings.Contains(host.boxes[1].body, "Coordinates may not be negative.") {
		t.Errorf("negative report = %q", host.boxes[1].body)
	}
	if !strings.Contains(host.boxes[2].body, "handle doesn't exist") {
		t.Errorf("handle report = %q", host.boxes[2].body)
	}
}

func TestRun_Bitwise(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		a = bitwise_and(12, 10)
		o = bitwise_or(12, 10)
		x = bitwise_xor(12, 10)
		n = bitwise_not(0)
	`)

	if len(host.boxes) != 0 {
		t.Fatalf("unexpected reports: %+v", host.boxes)
	}
	for name, want := range map[string]float64{"a": 8, "o": 14, "x": 6, "n": -1} {
		if got := global(t, in, name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestRun_ColorConversionRoundTrip(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		h, s, v = rgb_to_hsv(255, 0, 0)
		r, g, b = hsv_to_rgb(h, s, v)
	`)

	if len(host.boxes) != 0 {
		t.Fatalf("unexpected reports: %+v", host.boxes)
	}
	if h := global(t, in, "h"); h != 0 {
		t.Errorf("hue = %v, want 0", h)
	}
	if r, g, b := global(t, in, "r"), global(t, in, "g"), global(t, in, "b"); r != 255 || g != 0 || b != 0 {
		t.Errorf("round trip = (%v,%v,%v), want (255,0,0)", r, g, b)
	}
}

func TestRun_HSVToRGBRangeValidation(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `r = hsv_to_rgb(0, 2, 0.5)`)

	if v := in.state.GetGlobal("r"); v != lua.LNil {
		t.Errorf("out-of-range conversion returned %v, want nil", v)
	}
	if len(host.boxes) != 1 || !strings.Contains(host.boxes[0].body, "aturation") {
		t.Errorf("reports = %+v", host.boxes)
	}
}

func TestRun_ZigZagOrder(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		local x, y, s = 0, 0, 0
		local out = {}
		repeat
			x, y, s = zig_zag_order(x, y, 3, 3, s)
			if s ~= -1 then
				out[#out + 1] = x .. "," .. y
			end
		until s == -1
		order = table.concat(out, " ")
	`)

	if len(host.boxes) != 0 {
		t.Fatalf("unexpected reports: %+v", host.boxes)
	}
	want := "0,0 1,0 0,1 0,2 1,1 2,0 2,1 1,2 2,2"
	if got := globalString(t, in, "order"); got != want {
		t.Errorf("zig-zag order = %q, want %q", got, want)
	}
}

func TestRun_SaveImage(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})
	path := filepath.Join(t.TempDir(), "out.png")

	mustRun(t, in, fmt.Sprintf(`
		img = allocate_image(2, 2)
		ok = save_image(img, %q, {format = "PNG", compression = -1})
		bad = save_image(img, %q, {format = "unknown_codec"})
	`, path, path))

	if v := in.state.GetGlobal("ok"); v != lua.LTrue {
		t.Errorf("save returned %v, want true", v)
	}
	if v := in.state.GetGlobal("bad"); v != lua.LFalse {
		t.Errorf("save with unknown codec returned %v, want false", v)
	}
	if len(host.boxes) != 1 || !strings.Contains(host.boxes[0].body, "unsupported image format") {
		t.Errorf("reports = %+v", host.boxes)
	}
	if _, err := in.Store().Load(path); err != nil {
		t.Errorf("reloading saved image failed: %v", err)
	}
}

func TestRun_DisplayInCurrentWindow(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		img = allocate_image(2, 2)
		ok = display_in_current_window(img)
	`)
	if v := in.state.GetGlobal("ok"); v != lua.LTrue {
		t.Errorf("display returned %v, want true", v)
	}
	if len(host.displayed) != 1 || host.displayed[0] != int(global(t, in, "img")) {
		t.Errorf("host displayed %v", host.displayed)
	}

	host.displayErr = errors.New("no window")
	mustRun(t, in, `ok = display_in_current_window(img)`)
	if v := in.state.GetGlobal("ok"); v != lua.LFalse {
		t.Errorf("failed display returned %v, want false", v)
	}
	if n := len(host.boxes); n != 1 {
		t.Errorf("got %d reports, want 1", n)
	}
}

func TestRun_GetDisplayedImageMemoized(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})
	host.caller = 7

	mustRun(t, in, `
		a = get_displayed_image()
		b = get_displayed_image()
	`)

	if a, b := global(t, in, "a"), global(t, in, "b"); a != 7 || b != 7 {
		t.Errorf("displayed image = (%v,%v), want (7,7)", a, b)
	}
	if host.callerCalls != 1 {
		t.Errorf("host queried %d times within one invocation, want 1", host.callerCalls)
	}

	// A new invocation re-queries.
	host.caller = 9
	mustRun(t, in, `c = get_displayed_image()`)
	if c := global(t, in, "c"); c != 9 {
		t.Errorf("displayed image after new invocation = %v, want 9", c)
	}
	if host.callerCalls != 2 {
		t.Errorf("host queried %d times total, want 2", host.callerCalls)
	}
}

func TestRun_MessageBoxAndDebugPrint(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		ok = show_message_box("hello there")
		debug_print("some diagnostics")
	`)

	if v := in.state.GetGlobal("ok"); v != lua.LTrue {
		t.Errorf("show_message_box returned %v, want true", v)
	}
	if len(host.boxes) != 1 || host.boxes[0].body != "hello there" || host.boxes[0].isError {
		t.Errorf("boxes = %+v", host.boxes)
	}
	if len(host.debug) != 1 || host.debug[0] != "some diagnostics" {
		t.Errorf("debug = %v", host.debug)
	}
}

func TestRun_FatalError(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	err := in.Run(`error("boom")`)

	var fatal *FatalScriptError
	if !errors.As(err, &fatal) {
		t.Fatalf("Run error = %v, want *FatalScriptError", err)
	}
	if !strings.Contains(fatal.Msg, "boom") {
		t.Errorf("fatal message = %q", fatal.Msg)
	}
	if len(host.boxes) != 1 || !host.boxes[0].isError || !strings.Contains(host.boxes[0].body, "Lua threw an error") {
		t.Errorf("boxes = %+v", host.boxes)
	}

	// The interpreter survives for the next invocation.
	mustRun(t, in, `x = 1`)
}

func TestRun_FatalAbortsTraversal(t *testing.T) {
	in, _ := newTestInterpreter(t, Options{})

	err := in.Run(`
		img = allocate_image(2, 2)
		count = 0
		traverse_image(img, function(r, g, b, a, x, y)
			count = count + 1
			set_current_pixel(9, 9, 9, 9)
			if count == 2 then
				error("stop")
			end
		end)
	`)

	var fatal *FatalScriptError
	if !errors.As(err, &fatal) {
		t.Fatalf("Run error = %v, want *FatalScriptError", err)
	}
	if got := global(t, in, "count"); got != 2 {
		t.Errorf("callback ran %v times before the abort, want 2", got)
	}

	// Writes made before the abort survive; later pixels are untouched.
	handle := int(global(t, in, "img"))
	store := in.Store()
	for i, want := range []imagestore.Pixel{
		{9, 9, 9, 9}, {9, 9, 9, 9}, {}, {},
	} {
		p, perr := store.Pixel(handle, i%2, i/2)
		if perr != nil {
			t.Fatalf("Pixel failed: %v", perr)
		}
		if p != want {
			t.Errorf("pixel %d = %v, want %v", i, p, want)
		}
	}

	// The unwind reset the traversal cursor.
	if serr := store.SetCurrentPixel(imagestore.Pixel{1, 1, 1, 1}); !errors.Is(serr, imagestore.ErrNoActiveTraversal) {
		t.Errorf("SetCurrentPixel after abort error = %v, want ErrNoActiveTraversal", serr)
	}
}

func TestRun_UnloadImage(t *testing.T) {
	in, host := newTestInterpreter(t, Options{})

	mustRun(t, in, `
		img = allocate_image(2, 2)
		unload_image(img)
		w = get_image_dimensions(img)
	`)

	if v := in.state.GetGlobal("w"); v != lua.LNil {
		t.Errorf("dimensions of unloaded image = %v, want nil", v)
	}
	if len(host.boxes) != 1 || !strings.Contains(host.boxes[0].body, "handle doesn't exist") {
		t.Errorf("reports = %+v", host.boxes)
	}
	if in.Store().Len() != 0 {
		t.Errorf("store still holds %d images", in.Store().Len())
	}
}
