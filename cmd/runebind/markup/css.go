package markup

import "strings"

// EmitCSS renders the styles section as one CSS text block. Selectors and
// properties are emitted in declaration order; values go through placeholder
// substitution and are never coerced.
func EmitCSS(styles *Map, r *Resolver) string {
	if r == nil {
		r = NewResolver(nil, nil)
	}
	var b strings.Builder
	styles.Each(func(selector string, body Value) {
		rules, ok := body.(*Map)
		if !ok {
			r.Diag.Warnf("style rule '%s' is not a block of properties; skipped", selector)
			return
		}
		b.WriteString(selector)
		b.WriteString(" {\n")
		rules.Each(func(prop string, v Value) {
			if !IsScalar(v) {
				r.Diag.Warnf("style '%s' in rule '%s' is not a scalar; skipped", prop, selector)
				return
			}
			b.WriteString("  ")
			b.WriteString(KebabCase(prop))
			b.WriteString(": ")
			b.WriteString(r.ExpandText(v))
			b.WriteString(";\n")
		})
		b.WriteString("}\n\n")
	})
	return b.String()
}

// KebabCase inserts a hyphen before every uppercase letter and lowercases it:
// backgroundColor -> background-color.
func KebabCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
