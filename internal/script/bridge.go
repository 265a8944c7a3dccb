package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/QtLab/Borderless/internal/colorconv"
	"github.com/QtLab/Borderless/internal/imagestore"
	"github.com/QtLab/Borderless/internal/scanorder"
)

// Canned validation messages, shared across functions.
const (
	msgNotEnoughParams = "Not enough parameters."
	msgChannelRange    = "All parameters should be in the range [0; 255]."
	msgAllIntegers     = "All parameters should be integers."
)

// register exposes the bridge functions as Lua globals.
func (in *Interpreter) register() {
	funcs := map[string]lua.LGFunction{
		"load_image":                in.loadImage,
		"allocate_image":            in.allocateImage,
		"unload_image":              in.unloadImage,
		"traverse_image":            in.traverseImage,
		"rgb_to_hsv":                in.rgbToHSV,
		"hsv_to_rgb":                in.hsvToRGB,
		"set_current_pixel":         in.setCurrentPixel,
		"save_image":                in.saveImage,
		"bitwise_and":               in.bitwiseAnd,
		"bitwise_or":                in.bitwiseOr,
		"bitwise_xor":               in.bitwiseXor,
		"bitwise_not":               in.bitwiseNot,
		"get_pixel":                 in.getPixel,
		"get_image_dimensions":      in.getImageDimensions,
		"zig_zag_order":             in.zigZagOrder,
		"display_in_current_window": in.displayInCurrentWindow,
		"get_displayed_image":       in.getDisplayedImage,
		"debug_print":               in.debugPrint,
		"show_message_box":          in.showMessageBox,
	}
	for name, fn := range funcs {
		in.state.SetGlobal(name, in.state.NewFunction(fn))
	}
}

// failNil is the nil-plus-message failure convention for functions
// whose success value is a handle or tuple.
func (in *Interpreter) failNil(L *lua.LState, function, msg string) int {
	in.reportError(L, function, msg)
	L.Push(lua.LNil)
	L.Push(lua.LString(msg))
	return 2
}

// failFalse is the boolean failure convention.
func (in *Interpreter) failFalse(L *lua.LState, function, msg string) int {
	in.reportError(L, function, msg)
	L.Push(lua.LFalse)
	return 1
}

func (in *Interpreter) loadImage(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 1 {
			return in.failNil(L, "load_image", msgNotEnoughParams)
		}
		if L.Get(1).Type() != lua.LTString {
			return in.failNil(L, "load_image", "The parameter should be a string.")
		}
	}
	handle, err := in.store.Load(L.ToString(1))
	if err != nil {
		return in.failNil(L, "load_image", err.Error())
	}
	L.Push(lua.LNumber(handle))
	return 1
}

func (in *Interpreter) allocateImage(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 2 {
			return in.failNil(L, "allocate_image", msgNotEnoughParams)
		}
		if L.Get(1).Type() != lua.LTNumber || L.Get(2).Type() != lua.LTNumber {
			return in.failNil(L, "allocate_image", "Both parameters must be integers.")
		}
	}
	w, h := L.ToInt(1), L.ToInt(2)
	if w <= 0 || h <= 0 {
		return in.failNil(L, "allocate_image", "Both parameters must be greater than zero.")
	}
	handle, err := in.store.Allocate(w, h)
	if err != nil {
		return in.failNil(L, "allocate_image", err.Error())
	}
	L.Push(lua.LNumber(handle))
	return 1
}

func (in *Interpreter) unloadImage(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 1 {
			in.reportError(L, "unload_image", msgNotEnoughParams)
			return 0
		}
		if L.Get(1).Type() != lua.LTNumber {
			in.reportError(L, "unload_image", "Parameter should be an integer.")
			return 0
		}
	}
	if err := in.store.Unload(L.ToInt(1)); err != nil {
		in.reportError(L, "unload_image", err.Error())
	}
	return 0
}

func (in *Interpreter) traverseImage(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 2 {
			in.reportError(L, "traverse_image", msgNotEnoughParams)
			return 0
		}
		if L.Get(1).Type() != lua.LTNumber || L.Get(2).Type() != lua.LTFunction {
			in.reportError(L, "traverse_image", "Parameters are of incorrect types.")
			return 0
		}
	}
	fn := L.Get(2)
	err := in.store.Traverse(L.ToInt(1), func(r, g, b, a uint8, x, y int) {
		L.Push(fn)
		L.Push(lua.LNumber(r))
		L.Push(lua.LNumber(g))
		L.Push(lua.LNumber(b))
		L.Push(lua.LNumber(a))
		L.Push(lua.LNumber(x))
		L.Push(lua.LNumber(y))
		// Unprotected on purpose: a failing callback unwinds through
		// the traversal to the Run boundary.
		L.Call(6, 0)
	})
	if err != nil {
		in.reportError(L, "traverse_image", err.Error())
	}
	return 0
}

func (in *Interpreter) rgbToHSV(L *lua.LState) int {
	if !in.opts.MinimizeChecking && L.GetTop() < 3 {
		in.reportError(L, "rgb_to_hsv", msgNotEnoughParams)
		return 0
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		if !in.opts.MinimizeChecking && L.Get(i+1).Type() != lua.LTNumber {
			in.reportError(L, "rgb_to_hsv", msgAllIntegers)
			return 0
		}
		v := float64(L.ToNumber(i + 1))
		if v < 0 || v > 255 {
			in.reportError(L, "rgb_to_hsv", msgChannelRange)
			return 0
		}
		rgb[i] = uint8(v)
	}
	h, s, v := colorconv.RGBToHSV(rgb[0], rgb[1], rgb[2])
	L.Push(lua.LNumber(h))
	L.Push(lua.LNumber(s))
	L.Push(lua.LNumber(v))
	return 3
}

func (in *Interpreter) hsvToRGB(L *lua.LState) int {
	if !in.opts.MinimizeChecking && L.GetTop() < 3 {
		in.reportError(L, "hsv_to_rgb", msgNotEnoughParams)
		return 0
	}
	var hsv [3]float64
	for i := 0; i < 3; i++ {
		if !in.opts.MinimizeChecking && L.Get(i+1).Type() != lua.LTNumber {
			in.reportError(L, "hsv_to_rgb", "All parameters should be numbers.")
			return 0
		}
		hsv[i] = float64(L.ToNumber(i + 1))
	}
	r, g, b, err := colorconv.HSVToRGB(hsv[0], hsv[1], hsv[2])
	if err != nil {
		in.reportError(L, "hsv_to_rgb", err.Error())
		return 0
	}
	L.Push(lua.LNumber(r))
	L.Push(lua.LNumber(g))
	L.Push(lua.LNumber(b))
	return 3
}

func (in *Interpreter) setCurrentPixel(L *lua.LState) int {
	if !in.opts.MinimizeChecking && L.GetTop() < 4 {
		in.reportError(L, "set_current_pixel", msgNotEnoughParams)
		return 0
	}
	var rgba imagestore.Pixel
	for i := 0; i < 4; i++ {
		if !in.opts.MinimizeChecking && L.Get(i+1).Type() != lua.LTNumber {
			in.reportError(L, "set_current_pixel", msgAllIntegers)
			return 0
		}
		c := L.ToInt(i + 1)
		if c < 0 || c > 255 {
			in.reportError(L, "set_current_pixel", msgChannelRange)
			return 0
		}
		rgba[i] = uint8(c)
	}
	if err := in.store.SetCurrentPixel(rgba); err != nil {
		in.reportError(L, "set_current_pixel", err.Error())
	}
	return 0
}

func (in *Interpreter) saveImage(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 2 {
			return in.failFalse(L, "save_image", msgNotEnoughParams)
		}
		if L.Get(1).Type() != lua.LTNumber {
			return in.failFalse(L, "save_image", "The first parameter should be a number.")
		}
		if L.Get(2).Type() != lua.LTString {
			return in.failFalse(L, "save_image", "The second parameter should be a string.")
		}
	}
	opt := imagestore.DefaultSaveOptions()
	if L.GetTop() >= 3 {
		if tbl, ok := L.Get(3).(*lua.LTable); ok {
			if v := tbl.RawGetString("format"); v.Type() == lua.LTString {
				opt.Format = strings.ToLower(lua.LVAsString(v))
			}
			if v := tbl.RawGetString("compression"); v.Type() == lua.LTNumber {
				opt.Compression = int(lua.LVAsNumber(v))
			}
		}
	}
	if err := in.store.Save(L.ToInt(1), L.ToString(2), opt); err != nil {
		return in.failFalse(L, "save_image", err.Error())
	}
	L.Push(lua.LTrue)
	return 1
}

// The bitwise helpers compensate for the scripting language's lack of
// native bitwise operators. They deliberately skip validation; Lua's
// own coercion rules apply.

func (in *Interpreter) bitwiseAnd(L *lua.LState) int {
	L.Push(lua.LNumber(L.ToInt64(1) & L.ToInt64(2)))
	return 1
}

func (in *Interpreter) bitwiseOr(L *lua.LState) int {
	L.Push(lua.LNumber(L.ToInt64(1) | L.ToInt64(2)))
	return 1
}

func (in *Interpreter) bitwiseXor(L *lua.LState) int {
	L.Push(lua.LNumber(L.ToInt64(1) ^ L.ToInt64(2)))
	return 1
}

func (in *Interpreter) bitwiseNot(L *lua.LState) int {
	L.Push(lua.LNumber(^L.ToInt64(1)))
	return 1
}

func (in *Interpreter) getPixel(L *lua.LState) int {
	if !in.opts.MinimizeChecking && L.GetTop() < 3 {
		in.reportError(L, "get_pixel", msgNotEnoughParams)
		return 0
	}
	var params [3]int
	for i := 0; i < 3; i++ {
		if !in.opts.MinimizeChecking && L.Get(i+1).Type() != lua.LTNumber {
			in.reportError(L, "get_pixel", msgAllIntegers)
			return 0
		}
		params[i] = L.ToInt(i + 1)
		if i > 0 && params[i] < 0 {
			in.reportError(L, "get_pixel", "Coordinates may not be negative.")
			return 0
		}
	}
	p, err := in.store.Pixel(params[0], params[1], params[2])
	if err != nil {
		in.reportError(L, "get_pixel", err.Error())
		return 0
	}
	for _, c := range p {
		L.Push(lua.LNumber(c))
	}
	return 4
}

func (in *Interpreter) getImageDimensions(L *lua.LState) int {
	if L.GetTop() < 1 {
		in.reportError(L, "get_image_dimensions", msgNotEnoughParams)
		return 0
	}
	if L.Get(1).Type() != lua.LTNumber {
		in.reportError(L, "get_image_dimensions", "The parameter should be an integer.")
		return 0
	}
	w, h, err := in.store.Dimensions(L.ToInt(1))
	if err != nil {
		in.reportError(L, "get_image_dimensions", err.Error())
		return 0
	}
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

func (in *Interpreter) zigZagOrder(L *lua.LState) int {
	if L.GetTop() < 5 {
		in.reportError(L, "zig_zag_order", msgNotEnoughParams)
		return 0
	}
	var params [5]int
	for i := 0; i < 5; i++ {
		if L.Get(i+1).Type() != lua.LTNumber {
			in.reportError(L, "zig_zag_order", msgAllIntegers)
			return 0
		}
		params[i] = L.ToInt(i + 1)
	}
	x, y, s := scanorder.Next(params[0], params[1], params[2], params[3], scanorder.State(params[4]))
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	L.Push(lua.LNumber(s))
	return 3
}

func (in *Interpreter) displayInCurrentWindow(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 1 {
			return in.failFalse(L, "display_in_current_window", msgNotEnoughParams)
		}
		if L.Get(1).Type() != lua.LTNumber {
			return in.failFalse(L, "display_in_current_window", "The first parameter should be a number.")
		}
	}
	if err := in.host.DisplayInCurrentWindow(L.ToInt(1)); err != nil {
		return in.failFalse(L, "display_in_current_window", err.Error())
	}
	L.Push(lua.LTrue)
	return 1
}

// getDisplayedImage memoizes the host query in a script-scoped global
// so repeated calls within one triggered event agree even if windows
// change underneath.
func (in *Interpreter) getDisplayedImage(L *lua.LState) int {
	if v := L.GetGlobal(displayedImageGlobal); v != lua.LNil {
		L.Push(v)
		return 1
	}
	handle := lua.LNumber(in.host.CallerImage())
	L.SetGlobal(displayedImageGlobal, handle)
	L.Push(handle)
	return 1
}

func (in *Interpreter) debugPrint(L *lua.LState) int {
	in.host.DebugPrint(L.ToString(1))
	return 0
}

func (in *Interpreter) showMessageBox(L *lua.LState) int {
	if !in.opts.MinimizeChecking {
		if L.GetTop() < 1 {
			return in.failFalse(L, "show_message_box", msgNotEnoughParams)
		}
		if L.Get(1).Type() != lua.LTString {
			return in.failFalse(L, "show_message_box", "The first parameter should be a string.")
		}
	}
	in.host.MessageBox("", L.ToString(1), false)
	L.Push(lua.LTrue)
	return 1
}
