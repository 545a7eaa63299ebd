package svgparse

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/svgmvg/mvg"
	"github.com/benoitkugler/svgmvg/svgunit"
)

// styleProps are the properties with a specific meaning
// in style declarations. The others are handled as attributes.
var styleProps = map[string]attrFunc{
	"background": backgroundP,
	"color":      colorP,
	"font":       fontP,
	"offset":     offsetP,
}

func backgroundP(_ *Builder, f *drawingContext, v string) error {
	if f.name == "svg" {
		f.background = v
	}
	return nil
}

// colorP binds currentColor for the rest of the element.
func colorP(b *Builder, f *drawingContext, v string) error {
	f.currentColor = v
	b.emit("currentColor", mvg.Quote(v))
	return nil
}

// fontP handles the shorthand `[style] size family`.
func fontP(b *Builder, f *drawingContext, v string) error {
	fields := strings.Fields(v)
	if len(fields) < 2 {
		return nil
	}
	if len(fields) >= 3 {
		if _, n := svgunit.ParseNumber(fields[0]); n == 0 {
			b.emit("font-style", mvg.Quote(fields[0]))
			fields = fields[1:]
		}
	}
	if err := fontSizeF(b, f, fields[0]); err != nil {
		return err
	}
	b.emit("font-family", mvg.Quote(strings.Join(fields[1:], " ")))
	return nil
}

func offsetP(b *Builder, f *drawingContext, v string) error {
	b.emit("offset", mvg.Num(f.length(v, svgunit.Horizontal)))
	return nil
}

// processStyle applies a list of declarations to the current
// element. The font size comes first, since other lengths
// may depend on it.
func (b *Builder) processStyle(f *drawingContext, declarations [][2]string) error {
	for _, decl := range declarations {
		if strings.EqualFold(decl[0], "font-size") {
			if err := fontSizeF(b, f, decl[1]); err != nil {
				return err
			}
		}
	}
	for _, decl := range declarations {
		key, value := strings.ToLower(decl[0]), decl[1]
		if key == "font-size" || key == "style" {
			continue
		}
		fn, ok := styleProps[key]
		if !ok {
			fn, ok = attributes[key]
		}
		if !ok {
			b.debug("ignoring style property", "element", f.name, "property", key)
			continue
		}
		if err := fn(b, f, value); err != nil {
			return err
		}
	}
	return nil
}

// styleEnd writes one class scope per selector of the style sheet.
func styleEnd(b *Builder, f *drawingContext) {
	for _, rule := range parseStyleSheet(b, b.text.String()) {
		for _, selector := range rule.selectors {
			b.emit("push", "class", mvg.Quote(strings.TrimPrefix(selector, ".")))
			if err := b.processStyle(f, rule.declarations); err != nil {
				return
			}
			b.emit("pop", "class")
		}
	}
}

type styleRule struct {
	selectors    []string
	declarations [][2]string
}

// parseStyleSheet uses a CSS parser, falling back to
// a simple `selector { declarations }` split on invalid input.
func parseStyleSheet(b *Builder, text string) []styleRule {
	sheet, err := parser.Parse(text)
	if err != nil {
		b.debug("invalid style sheet", "error", err)
		var out []styleRule
		for _, kv := range svgunit.Pairs(svgunit.KeyValuePairs(text, '{', '}')) {
			out = append(out, styleRule{
				selectors:    []string{kv[0]},
				declarations: svgunit.Pairs(svgunit.KeyValuePairs(kv[1], ':', ';')),
			})
		}
		return out
	}
	var out []styleRule
	for _, r := range sheet.Rules {
		if r.Kind == css.AtRule {
			continue // not supported
		}
		rule := styleRule{selectors: r.Selectors}
		for _, decl := range r.Declarations {
			rule.declarations = append(rule.declarations, [2]string{decl.Property, decl.Value})
		}
		out = append(out, rule)
	}
	return out
}
