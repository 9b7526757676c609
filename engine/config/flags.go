package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig        = "config"
	FlagTitle         = "title"
	FlagWidth         = "width"
	FlagHeight        = "height"
	FlagFullscreen    = "fullscreen"
	FlagHideCursor    = "hide-cursor"
	FlagVSync         = "vsync"
	FlagScreenDepth   = "screen-depth"
	FlagScreenNear    = "screen-near"
	FlagForceSoftware = "force-software"
	FlagClearColor    = "clear-color"
	FlagQuitKey       = "quit-key"
	FlagFrameLimit    = "frame-limit"
	FlagProfiling     = "profiling"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
)

// RegisterFlags adds one flag per configuration value to fs, plus --config for the file path.
// The defaults shown in usage come from Default.
//
// Parameters:
//   - fs: the flag set to register on
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.StringP(FlagConfig, "c", "", "configuration file (.toml, .yaml or .yml)")

	fs.String(FlagTitle, d.Window.Title, "window title")
	fs.Int(FlagWidth, d.Window.Width, "window width in pixels")
	fs.Int(FlagHeight, d.Window.Height, "window height in pixels")
	fs.BoolP(FlagFullscreen, "f", d.Window.Fullscreen, "run fullscreen at the desktop resolution")
	fs.Bool(FlagHideCursor, d.Window.HideCursor, "hide the mouse cursor over the window")

	fs.Bool(FlagVSync, d.Renderer.VSync, "present on the vertical blank")
	fs.Float32(FlagScreenDepth, d.Renderer.ScreenDepth, "far clip plane distance")
	fs.Float32(FlagScreenNear, d.Renderer.ScreenNear, "near clip plane distance")
	fs.Bool(FlagForceSoftware, d.Renderer.ForceSoftware, "use the fallback software adapter")

	fs.String(FlagClearColor, FormatClearColor(d.Engine.ClearColor), "frame clear colour as r,g,b,a")
	fs.String(FlagQuitKey, d.Engine.QuitKey, "key that ends the loop (name, letter, digit, F1-F12 or code)")
	fs.Float64(FlagFrameLimit, d.Engine.FrameLimit, "frame rate cap in frames per second, 0 for uncapped")
	fs.Bool(FlagProfiling, d.Engine.Profiling, "log frame statistics once per second")

	fs.String(FlagLogLevel, d.Log.Level, "log level: debug, info, warn or error")
	fs.String(FlagLogFormat, d.Log.Format, "log format: text or json")
}

// ApplyFlags copies every flag the user set on fs into c. Flags left at their default
// do not override values loaded from a file.
//
// Parameters:
//   - fs: a parsed flag set prepared by RegisterFlags
//   - c: the configuration to update
//
// Returns:
//   - error: an error if a flag value cannot be read
func ApplyFlags(fs *pflag.FlagSet, c *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = applyFlag(fs, f.Name, c)
		if err != nil {
			err = fmt.Errorf("config: flag --%s: %w", f.Name, err)
		}
	})
	return err
}

func applyFlag(fs *pflag.FlagSet, name string, c *Config) error {
	var err error
	switch name {
	case FlagTitle:
		c.Window.Title, err = fs.GetString(name)
	case FlagWidth:
		c.Window.Width, err = fs.GetInt(name)
	case FlagHeight:
		c.Window.Height, err = fs.GetInt(name)
	case FlagFullscreen:
		c.Window.Fullscreen, err = fs.GetBool(name)
	case FlagHideCursor:
		c.Window.HideCursor, err = fs.GetBool(name)
	case FlagVSync:
		c.Renderer.VSync, err = fs.GetBool(name)
	case FlagScreenDepth:
		c.Renderer.ScreenDepth, err = fs.GetFloat32(name)
	case FlagScreenNear:
		c.Renderer.ScreenNear, err = fs.GetFloat32(name)
	case FlagForceSoftware:
		c.Renderer.ForceSoftware, err = fs.GetBool(name)
	case FlagClearColor:
		var raw string
		if raw, err = fs.GetString(name); err == nil {
			c.Engine.ClearColor, err = ParseClearColor(raw)
		}
	case FlagQuitKey:
		c.Engine.QuitKey, err = fs.GetString(name)
	case FlagFrameLimit:
		c.Engine.FrameLimit, err = fs.GetFloat64(name)
	case FlagProfiling:
		c.Engine.Profiling, err = fs.GetBool(name)
	case FlagLogLevel:
		c.Log.Level, err = fs.GetString(name)
	case FlagLogFormat:
		c.Log.Format, err = fs.GetString(name)
	}
	return err
}

// ParseClearColor parses comma-separated channel values such as "0.2,0.3,0.4,1".
//
// Parameters:
//   - s: the channel list
//
// Returns:
//   - []float32: the parsed channels
//   - error: an error if a channel is not a number
func ParseClearColor(s string) ([]float32, error) {
	fields := strings.Split(s, ",")
	rgba := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("clear colour channel %q: %w", f, err)
		}
		rgba = append(rgba, float32(v))
	}
	return rgba, nil
}

// FormatClearColor renders a clear colour the way --clear-color accepts it.
func FormatClearColor(rgba []float32) string {
	parts := make([]string, len(rgba))
	for i, v := range rgba {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}
