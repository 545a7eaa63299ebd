package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="10" viewBox="0 0 20 10">
	<rect x="0" y="0" width="10" height="10" fill="red"/>
</svg>`

func quietConfig() *Config {
	c := DefaultConfig()
	c.SetLogger(logr.Discard())
	return &c
}

func TestCommands(t *testing.T) {
	c := quietConfig()

	var directives bytes.Buffer
	require.NoError(t, Decode(c, strings.NewReader(document), &directives))
	assert.Contains(t, directives.String(), "rectangle 0,0 10,10")

	var svg bytes.Buffer
	require.NoError(t, Encode(c, &directives, &svg))
	assert.Contains(t, svg.String(), `<svg width="20" height="10"`)
	assert.Contains(t, svg.String(), `<rect x="0" y="0" width="10" height="10"/>`)

	var img bytes.Buffer
	require.NoError(t, Raster(c, strings.NewReader(document), &img))
	decoded, err := png.Decode(&img)
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
}

func TestCommandErrors(t *testing.T) {
	c := quietConfig()
	c.SetErrorMode(mvg.StrictErrorMode)

	var out bytes.Buffer
	err := Decode(c, strings.NewReader(`<svg><blink/></svg>`), &out)
	var e *mvg.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, mvg.UnsupportedError, e.Kind)

	err = Encode(c, strings.NewReader("pop graphic-context\n"), &out)
	assert.True(t, errors.Is(err, mvg.ErrUnbalanced))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
width = 50

[parse]
error_mode = "warn"
point_size = 10

[interpret]
max_depth = 4
`), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50., c.Width)
	assert.Equal(t, mvg.WarnErrorMode, c.Parse.ErrorMode)
	assert.Equal(t, 10., c.Parse.PointSize)
	assert.Equal(t, 4, c.Interpret.MaxDepth)
	// defaults are kept
	assert.Equal(t, mvg.IgnoreErrorMode, c.Interpret.ErrorMode)

	require.NoError(t, os.WriteFile(path, []byte("width = ["), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFlags(t *testing.T) {
	f := flags{strict: true, width: 30}
	c, err := f.load()
	require.NoError(t, err)
	assert.Equal(t, mvg.StrictErrorMode, c.Parse.ErrorMode)
	assert.Equal(t, mvg.StrictErrorMode, c.Interpret.ErrorMode)
	assert.Equal(t, 30., c.Width)
	assert.Equal(t, 30, c.rasterOptions().Width)
	assert.Equal(t, 30., c.writeOptions().Width)
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.svg")
	output := filepath.Join(dir, "out.mvg")
	require.NoError(t, os.WriteFile(input, []byte(document), 0o644))

	root := newRootCommand()
	root.SetArgs([]string{"decode", "-o", output, input})
	require.NoError(t, root.Execute())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "viewbox 0 0 20 10")

	root = newRootCommand()
	root.SetArgs([]string{"decode", filepath.Join(dir, "missing.svg")})
	assert.Error(t, root.Execute())
}
