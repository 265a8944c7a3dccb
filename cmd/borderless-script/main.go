// Command borderless-script runs a viewer plugin script without the
// viewer: it preloads images into a store, executes the script, and
// writes out whatever image the script chose to display. The bridge
// surface is identical to the one scripts see inside the application,
// so it doubles as a test harness for plugin development.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/disintegration/imaging"

	"github.com/QtLab/Borderless/internal/imagestore"
	"github.com/QtLab/Borderless/internal/orient"
	"github.com/QtLab/Borderless/internal/script"
)

var cli struct {
	Script           string   `arg:"" help:"Lua script to run." type:"existingfile"`
	Images           []string `arg:"" optional:"" help:"Images preloaded into the store; the first one acts as the caller image." type:"existingfile"`
	Output           string   `short:"o" help:"Where to write the image the script displays. Ignored when the script displays nothing."`
	MinimizeChecking bool     `short:"m" help:"Skip per-call argument validation in the scripting bridge."`
	Verbose          bool     `short:"v" help:"Log debug_print output and per-call details."`
}

// terminalHost implements the viewer surface for a windowless run.
// Message boxes become log lines and "displaying" an image records it
// for the final write-out.
type terminalHost struct {
	store       *imagestore.Store
	log         *slog.Logger
	caller      int
	displayed   int
	orientation orient.Orientation
	zoom        float64
	zoomSet     bool
}

func (h *terminalHost) DisplayInCurrentWindow(handle int) error {
	if _, err := h.store.Image(handle); err != nil {
		return err
	}
	h.displayed = handle
	return nil
}

func (h *terminalHost) CallerImage() int { return h.caller }

func (h *terminalHost) MessageBox(title, body string, isError bool) {
	if isError {
		h.log.Error(body, "title", title)
		return
	}
	h.log.Info(body, "title", title)
}

func (h *terminalHost) DebugPrint(text string) { h.log.Debug(text) }

func (h *terminalHost) Orientation() orient.Orientation { return h.orientation }

func (h *terminalHost) SetOrientation(o orient.Orientation) { h.orientation = o }

func (h *terminalHost) Zoom() float64 { return h.zoom }

func (h *terminalHost) SetZoom(z float64) {
	h.zoom = z
	h.zoomSet = true
}

func (h *terminalHost) AutoZoom() bool { return !h.zoomSet }

func main() {
	kong.Parse(&cli,
		kong.Name("borderless-script"),
		kong.Description("Run a Borderless plugin script headlessly."))

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log); err != nil {
		log.Error("script run failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	store := imagestore.New()
	host := &terminalHost{store: store, log: log, caller: -1, displayed: -1, zoom: 1}

	for i, path := range cli.Images {
		handle, err := store.Load(path)
		if err != nil {
			return fmt.Errorf("preloading %s: %w", path, err)
		}
		log.Debug("preloaded image", "path", path, "handle", handle)
		if i == 0 {
			host.caller = handle
		}
	}

	in := script.New(store, host, script.Options{MinimizeChecking: cli.MinimizeChecking})
	defer in.Close()

	if err := in.RunFile(cli.Script); err != nil {
		return err
	}

	if cli.Output == "" || host.displayed < 0 {
		return nil
	}
	img, err := store.Image(host.displayed)
	if err != nil {
		// The script displayed an image and then unloaded it.
		return fmt.Errorf("displayed image vanished: %w", err)
	}
	out := orient.Apply(img.Bitmap(), host.orientation)
	if err := imaging.Save(out, cli.Output); err != nil {
		return fmt.Errorf("writing %s: %w", cli.Output, err)
	}
	log.Info("wrote displayed image", "path", cli.Output, "handle", host.displayed)
	return nil
}
