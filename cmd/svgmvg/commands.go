package main

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/benoitkugler/svgmvg/svgparse"
	"github.com/benoitkugler/svgmvg/svgraster"
	"github.com/benoitkugler/svgmvg/svgwrite"
)

// Decode converts the SVG document to MVG directives.
func Decode(c *Config, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	err := svgparse.Convert(in, w, c.Parse)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Encode converts MVG directives to an SVG document.
func Encode(c *Config, in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	if err = svgwrite.Encode(out, string(src), c.writeOptions()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Raster renders the SVG document to a PNG image.
func Raster(c *Config, in io.Reader, out io.Writer) error {
	img, err := svgraster.RasterSVG(in, c.rasterOptions())
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	return png.Encode(out, img)
}

// openInput returns stdin for an empty name or "-".
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// createOutput returns stdout for an empty name or "-".
func createOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
