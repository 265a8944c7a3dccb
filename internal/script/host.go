package script

import "github.com/QtLab/Borderless/internal/orient"

// Host is the viewer surface scripts can reach. The real
// implementation lives with the window/UI code; tests and headless
// runs supply their own.
type Host interface {
	// DisplayInCurrentWindow shows the image for handle in the window
	// that triggered the current script.
	DisplayInCurrentWindow(handle int) error

	// CallerImage identifies the image displayed by the window that
	// issued the current script invocation, or a negative value when
	// no window did.
	CallerImage() int

	// MessageBox surfaces a modal notification. An empty title lets
	// the host pick its default.
	MessageBox(title, body string, isError bool)

	// DebugPrint is a diagnostic sink; hosts on targets without one
	// simply drop the text.
	DebugPrint(text string)

	// Orientation and zoom of the current window.
	Orientation() orient.Orientation
	SetOrientation(orient.Orientation)
	Zoom() float64
	SetZoom(float64)
	AutoZoom() bool
}

// NopHost discards notifications and displays nothing. Useful for
// tests and for running scripts that never touch a window.
type NopHost struct {
	orientation orient.Orientation
	zoom        float64
}

func (h *NopHost) DisplayInCurrentWindow(int) error    { return nil }
func (h *NopHost) CallerImage() int                    { return -1 }
func (h *NopHost) MessageBox(string, string, bool)     {}
func (h *NopHost) DebugPrint(string)                   {}
func (h *NopHost) Orientation() orient.Orientation     { return h.orientation }
func (h *NopHost) SetOrientation(o orient.Orientation) { h.orientation = o }
func (h *NopHost) Zoom() float64                       { return h.zoom }
func (h *NopHost) SetZoom(z float64)                   { h.zoom = z }
func (h *NopHost) AutoZoom() bool                      { return true }
