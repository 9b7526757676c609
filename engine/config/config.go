package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Format is a configuration file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// WindowConfig configures the application window.
type WindowConfig struct {
	Title      string `toml:"title" yaml:"title"`
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Fullscreen bool   `toml:"fullscreen" yaml:"fullscreen"`
	HideCursor bool   `toml:"hide_cursor" yaml:"hide_cursor"`
}

// RendererConfig configures the GPU surface.
type RendererConfig struct {
	VSync         bool    `toml:"vsync" yaml:"vsync"`
	ScreenDepth   float32 `toml:"screen_depth" yaml:"screen_depth"`
	ScreenNear    float32 `toml:"screen_near" yaml:"screen_near"`
	ForceSoftware bool    `toml:"force_software" yaml:"force_software"`
}

// EngineConfig configures the frame loop.
type EngineConfig struct {
	ClearColor []float32 `toml:"clear_color" yaml:"clear_color"`
	QuitKey    string    `toml:"quit_key" yaml:"quit_key"`
	FrameLimit float64   `toml:"frame_limit" yaml:"frame_limit"` // frames per second, 0 = uncapped
	Profiling  bool      `toml:"profiling" yaml:"profiling"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn or error
	Format string `toml:"format" yaml:"format"` // text or json
}

// Config is the complete application configuration.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// Default returns the configuration used when no file or flag overrides a value.
//
// Returns:
//   - Config: 800x600 windowed, vsync on, clip planes 0.1 to 1000, mid-grey clear, Escape quits
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:      "Game Engine",
			Width:      800,
			Height:     600,
			HideCursor: true,
		},
		Renderer: RendererConfig{
			VSync:       true,
			ScreenDepth: 1000.0,
			ScreenNear:  0.1,
		},
		Engine: EngineConfig{
			ClearColor: []float32{0.5, 0.5, 0.5, 1.0},
			QuitKey:    "escape",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// decoder is implemented by the TOML and YAML stream decoders.
type decoder interface {
	Decode(v any) error
}

// decoderFunc creates a strict decoder for a reader.
type decoderFunc func(r io.Reader) decoder

var decoders = map[Format]decoderFunc{
	FormatTOML: func(r io.Reader) decoder {
		return toml.NewDecoder(r).DisallowUnknownFields()
	},
	FormatYAML: func(r io.Reader) decoder {
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		return d
	},
}

// FormatForPath picks the encoding from a file extension.
//
// Parameters:
//   - path: the file path (.toml, .yaml or .yml)
//
// Returns:
//   - Format: the encoding
//   - error: an error for any other extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
}

// Decode reads a configuration from r on top of the defaults. Keys absent from the
// input keep their default value; unknown keys are an error.
//
// Parameters:
//   - r: the encoded configuration
//   - format: the encoding of r
//
// Returns:
//   - Config: the decoded configuration (not validated)
//   - error: a decode error
func Decode(r io.Reader, format Format) (Config, error) {
	newDecoder, ok := decoders[format]
	if !ok {
		return Config{}, fmt.Errorf("config: unknown format %d", format)
	}

	// a decoded clear_color replaces the default instead of extending it
	c := Default()
	c.Engine.ClearColor = nil
	if err := newDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if c.Engine.ClearColor == nil {
		c.Engine.ClearColor = Default().Engine.ClearColor
	}
	return c, nil
}

// Load reads a configuration file on top of the defaults. The encoding follows the extension.
//
// Parameters:
//   - path: the .toml, .yaml or .yml file
//
// Returns:
//   - Config: the loaded configuration (not validated)
//   - error: an error if the file cannot be opened or decoded
func Load(path string) (Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Config{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks every value and reports all problems at once.
//
// Returns:
//   - error: nil, or ErrInvalidConfig joined with one error per problem
func (c Config) Validate() error {
	var errs []error

	if !c.Window.Fullscreen && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if !(c.Renderer.ScreenNear > 0) {
		errs = append(errs, fmt.Errorf("renderer.screen_near %v must be positive", c.Renderer.ScreenNear))
	}
	if !(c.Renderer.ScreenDepth > c.Renderer.ScreenNear) {
		errs = append(errs, fmt.Errorf("renderer.screen_depth %v must be beyond screen_near %v", c.Renderer.ScreenDepth, c.Renderer.ScreenNear))
	}
	if len(c.Engine.ClearColor) != 4 {
		errs = append(errs, fmt.Errorf("engine.clear_color needs 4 channels, got %d", len(c.Engine.ClearColor)))
	}
	for i, v := range c.Engine.ClearColor {
		if !common.InRange(v, 0, 1) {
			errs = append(errs, fmt.Errorf("engine.clear_color[%d] %v is outside [0, 1]", i, v))
		}
	}
	if _, err := ParseKey(c.Engine.QuitKey); err != nil {
		errs = append(errs, err)
	}
	if c.Engine.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("engine.frame_limit %v must not be negative", c.Engine.FrameLimit))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// ClearRGBA returns the clear colour as an RGBA array. Missing channels are zero.
func (c EngineConfig) ClearRGBA() [4]float32 {
	var rgba [4]float32
	copy(rgba[:], c.ClearColor)
	return rgba
}

// QuitKeyCode returns the virtual key code of QuitKey, falling back to Escape if it does not parse.
func (c EngineConfig) QuitKeyCode() uint32 {
	code, err := ParseKey(c.QuitKey)
	if err != nil {
		return common.KeyEscape
	}
	return code
}

// SlogLevel parses Level. An empty level means info.
//
// Returns:
//   - slog.Level: the parsed level
//   - error: an error for an unknown level name
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(common.Coalesce(c.Level, "info"))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// keyNames maps the configurable non-alphanumeric key names to virtual key codes.
var keyNames = map[string]uint32{
	"backspace": common.KeyBackspace,
	"tab":       common.KeyTab,
	"enter":     common.KeyEnter,
	"pause":     common.KeyPause,
	"escape":    common.KeyEscape,
	"esc":       common.KeyEscape,
	"space":     common.KeySpace,
	"pageup":    common.KeyPageUp,
	"pagedown":  common.KeyPageDown,
	"end":       common.KeyEnd,
	"home":      common.KeyHome,
	"left":      common.KeyLeft,
	"up":        common.KeyUp,
	"right":     common.KeyRight,
	"down":      common.KeyDown,
	"insert":    common.KeyInsert,
	"delete":    common.KeyDelete,
}

// ParseKey converts a key name to its virtual key code. Accepted forms are the names in
// keyNames, a single letter or digit, F1 to F12, and a numeric code such as 0x1B.
// Names are case-insensitive.
//
// Parameters:
//   - name: the key name
//
// Returns:
//   - uint32: the virtual key code
//   - error: an error if the name is unknown or the code does not fit the key table
func ParseKey(name string) (uint32, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := keyNames[n]; ok {
		return code, nil
	}

	if len(n) == 1 {
		switch ch := n[0]; {
		case ch >= 'a' && ch <= 'z':
			return uint32(common.KeyA + int(ch-'a')), nil
		case ch >= '0' && ch <= '9':
			return uint32(common.Key0 + int(ch-'0')), nil
		}
	}

	if rest, ok := strings.CutPrefix(n, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 1 && i <= 12 {
			return uint32(common.KeyF1 + i - 1), nil
		}
	}

	if code, err := strconv.ParseUint(n, 0, 32); err == nil {
		if code == 0 || code >= common.KeyCount {
			return 0, fmt.Errorf("key code %s is outside 1..%d", name, common.KeyCount-1)
		}
		return uint32(code), nil
	}

	return 0, fmt.Errorf("unknown key %q", name)
}
