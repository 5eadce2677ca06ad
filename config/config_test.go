package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/bytefield/layout"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, layout.DefaultSettings(), cfg.Settings())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, `
[render]
bytes_per_line = 16
format = "SVG"

[canvas]
cell_width = "3mm"
font_size = "10pt"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Render.BytesPerLine)
	require.Equal(t, 0, cfg.Render.Offset)
	require.Equal(t, FormatSVG, cfg.Render.Format)
	require.Equal(t, layout.MM(3), cfg.Canvas.CellWidth)
	require.Equal(t, layout.PT(10), cfg.Canvas.FontSize)
	require.Equal(t, Default().Canvas.CellHeight, cfg.Canvas.CellHeight)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "[render]\nwidth = 3\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "render.width")
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"wide line":  "[render]\nbytes_per_line = 1000\n",
		"zero line":  "[render]\nbytes_per_line = 0\n",
		"neg offset": "[render]\noffset = -1\n",
		"format":     "[render]\nformat = \"png\"\n",
		"length":     "[canvas]\ncell_width = \"wide\"\n",
		"syntax":     "[render\n",
	}
	for name, content := range cases {
		path := writeFile(t, t.TempDir(), FileName, content)
		_, err := Load(path)
		require.Error(t, err, name)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "[render]\nbytes_per_line = 8\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, FileName), path)

	cfg, used, err := Resolve("", nested)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, 8, cfg.Render.BytesPerLine)
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, used, err := Resolve("", dir)
	require.NoError(t, err)
	if used == "" {
		require.Equal(t, Default(), cfg)
	}

	explicit := writeFile(t, dir, "other.toml", "[render]\noffset = 4\n")
	cfg, used, err = Resolve(explicit, dir)
	require.NoError(t, err)
	require.Equal(t, explicit, used)
	require.Equal(t, 4, cfg.Render.Offset)
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatPDF, FormatSVG} {
		require.NoError(t, ValidateFormat(f))
	}
	require.Error(t, ValidateFormat("html"))
}
