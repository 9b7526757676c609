// Command oxy opens a window, brings up the GPU surface and clears it every frame until
// Escape is pressed or the window is closed.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/config"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "oxy:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("oxy", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	common.SetLogger(logger)

	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithFullscreen(cfg.Window.Fullscreen),
		window.WithHiddenCursor(cfg.Window.HideCursor),
	)
	if err != nil {
		showError(cfg.Window.Title, err)
		return err
	}

	r := renderer.NewRenderer(renderer.BackendTypeWGPU,
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithLogger(logger),
	)

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithVSync(cfg.Renderer.VSync),
		engine.WithFullscreen(cfg.Window.Fullscreen),
		engine.WithScreenDepth(cfg.Renderer.ScreenDepth),
		engine.WithScreenNear(cfg.Renderer.ScreenNear),
		engine.WithClearColor(cfg.Engine.ClearRGBA()),
		engine.WithQuitKey(cfg.Engine.QuitKeyCode()),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithErrorReporter(func(err error) {
			showError(cfg.Window.Title, err)
		}),
	)

	return eng.Run()
}

// loadConfig reads the --config file when given, then applies every flag set on the command line.
func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()

	path, err := fs.GetString(config.FlagConfig)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if err := config.ApplyFlags(fs, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newLogger(out io.Writer, c config.LogConfig) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}

// showError tells the user about a startup failure with a native message box.
func showError(title string, err error) {
	dialog.Message("%s", err.Error()).Title(common.Coalesce(title, "oxy")).Error()
}
