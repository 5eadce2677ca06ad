// Package config loads bytefield.toml, the per-project defaults file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/layout"
)

// FileName is the config file looked up next to the input and in its parents.
const FileName = "bytefield.toml"

// Output formats.
const (
	FormatText = "text"
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
)

// Config mirrors bytefield.toml.
type Config struct {
	Render RenderConfig `toml:"render"`
	Canvas CanvasConfig `toml:"canvas"`
}

// RenderConfig holds layout defaults applied below record settings.
type RenderConfig struct {
	BytesPerLine int    `toml:"bytes_per_line"`
	Offset       int    `toml:"offset"`
	Format       string `toml:"format"`
}

// CanvasConfig sizes the character grid of vector output.
type CanvasConfig struct {
	CellWidth   layout.Length `toml:"cell_width"`
	CellHeight  layout.Length `toml:"cell_height"`
	Font        string        `toml:"font"`
	FontSize    layout.Length `toml:"font_size"`
	StrokeWidth layout.Length `toml:"stroke_width"`
	Margin      layout.Length `toml:"margin"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			BytesPerLine: layout.DefaultBytesPerLine,
			Offset:       layout.DefaultOffset,
			Format:       FormatText,
		},
		Canvas: CanvasConfig{
			CellWidth:   layout.MM(2.4),
			CellHeight:  layout.MM(4.8),
			FontSize:    layout.PT(9),
			StrokeWidth: layout.MM(0.2),
			Margin:      layout.MM(10),
		},
	}
}

// Settings returns the layout defaults described by the config.
func (c Config) Settings() layout.Settings {
	return layout.Settings{BytesPerLine: c.Render.BytesPerLine, Offset: c.Render.Offset}
}

// Validate checks ranges that would otherwise fail late during rendering.
func (c Config) Validate() error {
	if c.Render.BytesPerLine < 1 || c.Render.BytesPerLine > diagram.MaxBytesPerLine {
		return fmt.Errorf("[render].bytes_per_line must be in 1..%d, got %d", diagram.MaxBytesPerLine, c.Render.BytesPerLine)
	}
	if c.Render.Offset < 0 {
		return fmt.Errorf("[render].offset must not be negative, got %d", c.Render.Offset)
	}
	if err := ValidateFormat(c.Render.Format); err != nil {
		return fmt.Errorf("[render].format: %w", err)
	}
	if c.Canvas.CellWidth.IsZero() || c.Canvas.CellHeight.IsZero() {
		return fmt.Errorf("[canvas] cell_width and cell_height must be positive")
	}
	if c.Canvas.FontSize.IsZero() {
		return fmt.Errorf("[canvas].font_size must be positive")
	}
	return nil
}

// ValidateFormat accepts text, pdf and svg.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatPDF, FormatSVG:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatPDF, FormatSVG)
	}
}

// Load reads path over the defaults. Keys unknown to Config are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Render.Format = strings.ToLower(strings.TrimSpace(cfg.Render.Format))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when set, otherwise the nearest FileName above
// startDir, otherwise the defaults. The returned path is empty for defaults.
func Resolve(explicit, startDir string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}
