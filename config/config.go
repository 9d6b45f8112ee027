// Package config loads editor settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/pelletier/go-toml/v2"

	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/layout"
	"github.com/ionut-t/tedit/render"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables read by ApplyEnv and DefaultPath.
const (
	EnvConfig    = "TEDIT_CONFIG"
	EnvTheme     = "TEDIT_THEME"
	EnvTabWidth  = "TEDIT_TAB_WIDTH"
	EnvHighlight = "TEDIT_HIGHLIGHT"
)

// ModeAuto picks full-file or windowed highlighting from the file size.
const ModeAuto = "auto"

// Config holds every user setting.
type Config struct {
	TabWidth    int    `toml:"tab_width"`
	Wrap        bool   `toml:"wrap"`
	LineNumbers bool   `toml:"line_numbers"`
	Theme       string `toml:"theme"`
	TrueColor   string `toml:"true_color"` // auto | on | off
	Debug       bool   `toml:"debug"`

	Highlight Highlight `toml:"highlight"`
	Layout    Layout    `toml:"layout"`
}

// Highlight configures the highlight cache.
type Highlight struct {
	Mode               string `toml:"mode"`
	FullFileThreshold  int    `toml:"full_file_threshold"`
	WindowBuffer       int    `toml:"window_buffer"`
	InvalidationRadius int    `toml:"invalidation_radius"`
	CacheSize          int    `toml:"cache_size"`
	MaxLineLength      int    `toml:"max_line_length"`
}

// Layout configures the layout cache.
type Layout struct {
	CacheSize int `toml:"cache_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TabWidth:    layout.DefaultTabWidth,
		Wrap:        true,
		LineNumbers: true,
		Theme:       highlighter.DefaultTheme,
		TrueColor:   "auto",
		Highlight: Highlight{
			Mode:              ModeAuto,
			FullFileThreshold: highlighter.DefaultFullFileThreshold,
			WindowBuffer:      highlighter.DefaultWindowBuffer,
			CacheSize:         highlighter.DefaultCacheSize,
			MaxLineLength:     highlighter.DefaultMaxLineLength,
		},
		Layout: Layout{CacheSize: layout.DefaultCacheSize},
	}
}

// ParseError reports a file that is not valid TOML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	var de *toml.DecodeError
	if errors.As(e.Err, &de) {
		row, col := de.Position()
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, row, col, de.Error())
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes data over the defaults, so keys missing from data keep
// their default values.
func Parse(data []byte) (Config, error) {
	return parse("<input>", data)
}

func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ParseError{Path: source, Err: err}
	}
	return cfg, nil
}

// Load reads the file at path. A missing file is not an error and yields
// the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// DefaultPath returns $TEDIT_CONFIG, or config.toml under the user config
// directory.
func DefaultPath(getenv func(string) string) string {
	if p := getenv(EnvConfig); p != "" {
		return p
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "tedit", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "tedit", "config.toml")
}

// ApplyEnv overrides settings from the environment. Values that do not
// parse are reported and leave the setting unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	if v, ok := lookup(EnvTheme); ok && v != "" {
		c.Theme = v
	}
	if v, ok := lookup(EnvTabWidth); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTabWidth, err))
		} else {
			c.TabWidth = n
		}
	}
	if v, ok := lookup(EnvHighlight); ok && v != "" {
		c.Highlight.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	return errors.Join(errs...)
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.TabWidth < 1 || c.TabWidth > 16 {
		invalid("tab_width must be between 1 and 16, got %d", c.TabWidth)
	}
	switch strings.ToLower(c.TrueColor) {
	case "auto", "on", "off", "true", "false":
	default:
		invalid("true_color must be auto, on or off, got %q", c.TrueColor)
	}

	h := c.Highlight
	if h.Mode != ModeAuto {
		if _, err := highlighter.ParseMode(h.Mode); err != nil {
			invalid("highlight.mode: %v", err)
		}
	}
	if h.InvalidationRadius < 0 || h.InvalidationRadius > 64 {
		invalid("highlight.invalidation_radius must be between 0 and 64, got %d", h.InvalidationRadius)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"highlight.full_file_threshold", h.FullFileThreshold},
		{"highlight.window_buffer", h.WindowBuffer},
		{"highlight.cache_size", h.CacheSize},
		{"highlight.max_line_length", h.MaxLineLength},
		{"layout.cache_size", c.Layout.CacheSize},
	} {
		if f.value <= 0 {
			invalid("%s must be positive, got %d", f.name, f.value)
		}
	}
	if h.CacheSize > 0 && h.CacheSize < highlighter.MinCacheSize {
		invalid("highlight.cache_size must be at least %d, got %d", highlighter.MinCacheSize, h.CacheSize)
	}
	return errors.Join(errs...)
}

// HighlightMode resolves the configured mode for a file of lineCount lines.
func (c Config) HighlightMode(lineCount int) highlighter.Mode {
	if c.Highlight.Mode == ModeAuto || c.Highlight.Mode == "" {
		return highlighter.ModeFor(lineCount, c.Highlight.FullFileThreshold)
	}
	m, err := highlighter.ParseMode(c.Highlight.Mode)
	if err != nil {
		return highlighter.ModeFor(lineCount, c.Highlight.FullFileThreshold)
	}
	return m
}

// ColorProfile resolves the true_color setting. "on" forces 24-bit
// colour, "off" the 256-colour palette, and "auto" asks the output and
// environ.
func (c Config) ColorProfile(output io.Writer, environ []string) colorprofile.Profile {
	switch strings.ToLower(c.TrueColor) {
	case "on", "true":
		return colorprofile.TrueColor
	case "off", "false":
		return colorprofile.ANSI256
	}
	return render.DetectProfile(output, environ)
}

// RenderOptions builds the session options for a file of lineCount lines.
func (c Config) RenderOptions(language string, lineCount int) render.Options {
	return render.Options{
		TabWidth:           c.TabWidth,
		Wrap:               c.Wrap,
		LineNumbers:        c.LineNumbers,
		Theme:              c.Theme,
		Language:           language,
		Mode:               c.HighlightMode(lineCount),
		MaxLineLength:      c.Highlight.MaxLineLength,
		HighlightCacheSize: c.Highlight.CacheSize,
		WindowBuffer:       c.Highlight.WindowBuffer,
		InvalidationRadius: c.Highlight.InvalidationRadius,
		LayoutCacheSize:    c.Layout.CacheSize,
	}
}
