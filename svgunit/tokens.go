package svgunit

import "strings"

// StripString removes /* */ comments from s and replaces newlines
// by spaces. An unterminated comment swallows the rest of the string.
// When trim is true, surrounding whitespace and one pair of
// enclosing quotes are removed as well.
func StripString(s string, trim bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 1
			continue
		}
		b.WriteByte(s[i])
	}
	out := b.String()
	if trim {
		out = strings.TrimSpace(out)
		if len(out) > 0 && (out[0] == '"' || out[0] == '\'') {
			out = out[1:]
		}
		if n := len(out); n > 0 && (out[n-1] == '"' || out[n-1] == '\'') {
			out = out[:n-1]
		}
	}
	return strings.ReplaceAll(out, "\n", " ")
}

// KeyValuePairs splits s on both separators, stripping (and trimming)
// each token. Empty tokens are kept, so that the result alternates
// keys and values for inputs such as "fill:red;stroke:blue"
// (separators ':' and ';') or "translate(1,2) scale(3)" (separators '(' and ')').
func KeyValuePairs(s string, keySep, valueSep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != keySep && s[i] != valueSep {
			continue
		}
		out = append(out, StripString(s[start:i], true))
		start = i + 1
	}
	return append(out, StripString(s[start:], true))
}

// Pairs groups the tokens returned by KeyValuePairs by two,
// skipping entries with an empty key.
func Pairs(tokens []string) [][2]string {
	out := make([][2]string, 0, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		if tokens[i] == "" {
			continue
		}
		out = append(out, [2]string{tokens[i], tokens[i+1]})
	}
	return out
}
