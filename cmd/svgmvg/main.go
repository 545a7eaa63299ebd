// Command svgmvg converts between SVG documents and MVG
// drawing directives, and renders SVG documents to PNG.
//
//	svgmvg decode drawing.svg > drawing.mvg
//	svgmvg encode -o drawing.svg drawing.mvg
//	svgmvg raster -o drawing.png drawing.svg
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

type flags struct {
	config string
	output string
	strict bool
	warn   bool
	width  float64
	height float64
}

// load builds the configuration from the file and the flags.
func (f *flags) load() (Config, error) {
	c := DefaultConfig()
	if f.config != "" {
		var err error
		if c, err = LoadConfig(f.config); err != nil {
			return c, err
		}
	}
	switch {
	case f.strict:
		c.SetErrorMode(mvg.StrictErrorMode)
	case f.warn:
		c.SetErrorMode(mvg.WarnErrorMode)
	}
	if c.Interpret.ErrorMode == mvg.IgnoreErrorMode && c.Parse.ErrorMode == mvg.IgnoreErrorMode {
		c.SetLogger(logr.Discard())
	}
	if f.width > 0 {
		c.Width = f.width
	}
	if f.height > 0 {
		c.Height = f.height
	}
	return c, nil
}

type action func(c *Config, in io.Reader, out io.Writer) error

// run opens the input and the output and applies the action.
func (f *flags) run(do action, args []string) error {
	c, err := f.load()
	if err != nil {
		return err
	}
	var input string
	if len(args) > 0 {
		input = args[0]
	}
	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := createOutput(f.output)
	if err != nil {
		return err
	}
	err = do(&c, in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCommand() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "svgmvg",
		Short:         "Convert between SVG and MVG drawing directives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "TOML file with the parser and interpreter options")
	pf.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	pf.BoolVar(&f.strict, "strict", false, "fail on unsupported elements and keywords")
	pf.BoolVar(&f.warn, "warn", false, "log unsupported elements and keywords")
	pf.Float64Var(&f.width, "width", 0, "output width (default from the viewbox)")
	pf.Float64Var(&f.height, "height", 0, "output height (default from the viewbox)")

	for _, sub := range []struct {
		use, short string
		do         action
	}{
		{"decode [file.svg]", "Convert an SVG document to MVG directives", Decode},
		{"encode [file.mvg]", "Convert MVG directives to an SVG document", Encode},
		{"raster [file.svg]", "Render an SVG document to PNG", Raster},
	} {
		do := sub.do
		root.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.run(do, args)
			},
		})
	}
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "svgmvg:", err)
		os.Exit(1)
	}
}
