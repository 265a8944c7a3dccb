package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/QtLab/Borderless/internal/imagestore"
)

// displayedImageGlobal memoizes get_displayed_image for the duration
// of one script invocation.
const displayedImageGlobal = "__current_image"

// FatalScriptError is an unrecoverable interpreter fault. It is the
// only error that aborts a script outright; everything else is folded
// into the per-function failure convention.
type FatalScriptError struct {
	Msg string
}

func (e *FatalScriptError) Error() string {
	return "fatal script error: " + e.Msg
}

// Options configure a new Interpreter.
type Options struct {
	// MinimizeChecking skips per-call arity and type validation on
	// the exposed functions, trusting scripts to pass correct
	// arguments.
	MinimizeChecking bool
}

// Interpreter owns one Lua state wired to an image store and a host.
// It is single-threaded, like the viewer it embeds into: one script
// invocation runs to completion before the next starts.
type Interpreter struct {
	state *lua.LState
	store *imagestore.Store
	host  Host
	opts  Options
}

// New creates an interpreter with the standard libraries opened and
// the bridge functions registered as globals.
func New(store *imagestore.Store, host Host, opts Options) *Interpreter {
	in := &Interpreter{
		state: lua.NewState(),
		store: store,
		host:  host,
		opts:  opts,
	}
	in.register()
	return in
}

// Close releases the Lua state. The store is left untouched; it
// outlives individual interpreters.
func (in *Interpreter) Close() { in.state.Close() }

// Store returns the image store this interpreter operates on.
func (in *Interpreter) Store() *imagestore.Store { return in.store }

// Run executes a script source as one invocation.
func (in *Interpreter) Run(source string) error {
	return in.invoke(func() error { return in.state.DoString(source) })
}

// RunFile executes the script at path as one invocation.
func (in *Interpreter) RunFile(path string) error {
	return in.invoke(func() error { return in.state.DoFile(path) })
}

// invoke is the outermost script boundary: it resets the per-invocation
// displayed-image memo, and converts both Lua faults and native panics
// into *FatalScriptError after notifying the host. Nothing fatal
// escapes past this point.
func (in *Interpreter) invoke(f func() error) (err error) {
	in.state.SetGlobal(displayedImageGlobal, lua.LNil)
	defer func() {
		if r := recover(); r != nil {
			fatal := &FatalScriptError{Msg: fmt.Sprint(r)}
			in.host.MessageBox("", "Lua threw an error: "+fatal.Msg, true)
			err = fatal
		}
	}()

	if runErr := f(); runErr != nil {
		in.host.MessageBox("", "Lua threw an error: "+runErr.Error(), true)
		return &FatalScriptError{Msg: runErr.Error()}
	}
	return nil
}

// reportError surfaces a recoverable failure: a notification naming
// the failing function and the line the script is executing, obtained
// from the runtime's own call stack.
func (in *Interpreter) reportError(L *lua.LState, function, msg string) {
	line := 0
	if dbg, ok := L.GetStack(1); ok {
		if _, err := L.GetInfo("Sl", dbg, lua.LNil); err == nil {
			line = dbg.CurrentLine
		}
	}
	body := fmt.Sprintf("ERROR at line %d calling function %s(): %s", line, function, msg)
	in.host.MessageBox("Error executing Lua script.", body, true)
}
