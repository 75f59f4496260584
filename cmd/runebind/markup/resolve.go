package markup

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// placeholderRe matches a variable placeholder: {{name}}
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Resolver turns raw text fragments into scalars. Variables are passed
// explicitly so that resolution never depends on a previous pass.
type Resolver struct {
	Variables *Map
	Diag      *Diagnostics
}

// NewResolver returns a Resolver substituting from vars and reporting
// unresolved placeholders to diag. Both may be nil.
func NewResolver(vars *Map, diag *Diagnostics) *Resolver {
	return &Resolver{Variables: vars, Diag: diag}
}

// Resolve trims raw, strips one pair of matching quotes, substitutes
// placeholders and coerces the result to a number or boolean when the whole
// string is one.
func (r *Resolver) Resolve(raw string) Scalar {
	return coerce(r.ResolveText(raw))
}

// Coerce is Resolve without placeholder substitution. Structure building
// stores values this way; placeholders are substituted once, when the tree is
// materialized.
func Coerce(raw string) Scalar {
	return coerce(StripQuotes(strings.TrimSpace(raw)))
}

func coerce(s string) Scalar {
	if f, ok := parseNumber(s); ok {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// ResolveText is Resolve without number/boolean coercion.
func (r *Resolver) ResolveText(raw string) string {
	return r.Substitute(StripQuotes(strings.TrimSpace(raw)))
}

// Expand substitutes the placeholders of a stored scalar. Strings whose text
// changes are coerced again so that "{{n}}" yields a number; everything else
// is returned as stored.
func (r *Resolver) Expand(v Scalar) Scalar {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if out := r.Substitute(s); out != s {
		return coerce(out)
	}
	return s
}

// ExpandText is Expand for text sinks: the result is always a string.
func (r *Resolver) ExpandText(v Scalar) string {
	return r.Substitute(FormatScalar(v))
}

// Substitute replaces every {{name}} placeholder in a single left-to-right
// pass. Substituted text is never re-scanned. Unknown names are left in place.
func (r *Resolver) Substitute(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-2]
		var (
			v  Value
			ok bool
		)
		if r.Variables != nil {
			v, ok = r.Variables.Get(name)
		}
		if !ok {
			r.Diag.Warnf("variable '{{%s}}' not found", name)
			return match
		}
		if !IsScalar(v) {
			r.Diag.Warnf("variable '{{%s}}' is not a scalar", name)
			return match
		}
		return FormatScalar(v)
	})
}

// StripQuotes removes exactly one pair of surrounding quotes when both ends
// carry the same quote character.
func StripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

// FormatScalar returns the text form of a scalar.
func FormatScalar(v Scalar) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseNumber accepts only strings that are numbers in their entirety:
// decimal and exponent forms, plus unsigned 0x/0o/0b integers.
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	if !startsNumeric(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// startsNumeric rejects the word forms ParseFloat accepts (inf, nan) and
// signed hex floats.
func startsNumeric(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return false
	}
	return s[0] == '.' || (s[0] >= '0' && s[0] <= '9')
}
