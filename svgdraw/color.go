package svgdraw

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgmvg/svgunit"
	"golang.org/x/image/colornames"
)

var errInvalidColor = errors.New("invalid color")

// ParseColor parses a color in all the forms found in
// paint directives: SVG 1.1 names, #rgb, #rrggbb, #rrggbbaa,
// rgb(...) and rgba(...).
// The nil color is returned for "none" and "transparent".
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "none", "transparent":
		return nil, nil
	case "":
		return nil, errInvalidColor
	}
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: cn.R, G: cn.G, B: cn.B, A: cn.A}, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}
	if args, ok := functionArgs(v, "rgba"); ok {
		return parseRGB(args, true)
	}
	if args, ok := functionArgs(v, "rgb"); ok {
		return parseRGB(args, false)
	}
	return nil, fmt.Errorf("%w: %q", errInvalidColor, s)
}

func functionArgs(v, name string) ([]string, bool) {
	if !strings.HasPrefix(v, name+"(") || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	v = v[len(name)+1 : len(v)-1]
	return strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '/' }), true
}

func parseHexColor(h string) (color.Color, error) {
	// duplicate the digits of the short forms
	if len(h) == 3 || len(h) == 4 {
		long := make([]byte, 0, 2*len(h))
		for i := 0; i < len(h); i++ {
			long = append(long, h[i], h[i])
		}
		h = string(long)
	}
	if len(h) != 6 && len(h) != 8 {
		return nil, fmt.Errorf("%w: #%s", errInvalidColor, h)
	}
	var c [4]uint8
	c[3] = 0xff
	for i := 0; i < len(h)/2; i++ {
		t, err := strconv.ParseUint(h[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: #%s", errInvalidColor, h)
		}
		c[i] = uint8(t)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

func parseRGB(args []string, withAlpha bool) (color.Color, error) {
	if len(args) != 3 && !(withAlpha && len(args) == 4) {
		return nil, fmt.Errorf("%w: %d components", errInvalidColor, len(args))
	}
	var c [4]uint8
	c[3] = 0xff
	for i := 0; i < 3; i++ {
		c[i] = colorValue(args[i])
	}
	if len(args) == 4 {
		a := svgunit.Number(args[3])
		if strings.HasSuffix(args[3], "%") {
			a /= 100
		}
		c[3] = clampByte(a * 255)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

func colorValue(v string) uint8 {
	n := svgunit.Number(v)
	if strings.HasSuffix(v, "%") {
		n = n * 255 / 100
	}
	return clampByte(n)
}

func clampByte(f float64) uint8 {
	if f < 0 {
		return 0
	} else if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}
