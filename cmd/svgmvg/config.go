package main

import (
	"fmt"
	"os"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgparse"
	"github.com/benoitkugler/svgmvg/svgraster"
	"github.com/benoitkugler/svgmvg/svgwrite"
	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
)

// Config groups the options of all the commands.
// It is read from a TOML file, then overridden by the flags.
type Config struct {
	Parse     svgparse.Options `toml:"parse"`
	Interpret mvg.Options      `toml:"interpret"`

	// Width and Height of the output, zero to use the viewbox.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// DefaultConfig returns the default options of each package.
func DefaultConfig() Config {
	return Config{
		Parse:     svgparse.DefaultOptions(),
		Interpret: mvg.DefaultOptions(),
	}
}

// LoadConfig reads the TOML file at path. Missing fields
// keep their default value.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err = toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// SetErrorMode applies the mode to the parser and the interpreter.
func (c *Config) SetErrorMode(mode mvg.ErrorMode) {
	c.Parse.ErrorMode = mode
	c.Interpret.ErrorMode = mode
}

// SetLogger applies the logger to the parser and the interpreter.
func (c *Config) SetLogger(logger logr.Logger) {
	c.Parse.Logger = logger
	c.Interpret.Logger = logger
}

func (c *Config) writeOptions() svgwrite.Options {
	return svgwrite.Options{Width: c.Width, Height: c.Height, MVG: c.Interpret}
}

func (c *Config) rasterOptions() svgraster.Options {
	return svgraster.Options{Width: int(c.Width), Height: int(c.Height), Parse: c.Parse, MVG: c.Interpret}
}
