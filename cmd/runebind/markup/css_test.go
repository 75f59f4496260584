package markup

import "testing"

func TestEmitCSS(t *testing.T) {
	defs, diag := mustBuild(t, `
variables:
  accent: teal
  pad: 4
styles:
  .box:
    backgroundColor: red
    borderTopWidth: "{{pad}}px"
  "a:hover":
    color: "{{accent}}"
  body:
    margin: 0
`)
	got := EmitCSS(defs.Styles, NewResolver(defs.Variables, diag))
	want := ".box {\n  background-color: red;\n  border-top-width: 4px;\n}\n\n" +
		"a:hover {\n  color: teal;\n}\n\n" +
		"body {\n  margin: 0;\n}\n\n"
	if got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
	if diag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diag.Items())
	}
}

func TestEmitCSS_ValuesAreNotCoerced(t *testing.T) {
	styles := NewMap()
	rule := NewMap()
	rule.Set("zIndex", "007")
	rule.Set("content", `"x"`)
	styles.Set(".x", rule)

	got := EmitCSS(styles, nil)
	want := ".x {\n  z-index: 007;\n  content: x;\n}\n\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEmitCSS_InvalidRulesWarn(t *testing.T) {
	defs, diag := mustBuild(t, `
styles:
  .flat: red
  .ok:
    color: blue
    nested:
      deep: 1
`)
	got := EmitCSS(defs.Styles, NewResolver(defs.Variables, diag))
	if got != ".ok {\n  color: blue;\n}\n\n" {
		t.Fatalf("got %q", got)
	}
	if !diagContains(diag, "style rule '.flat'") {
		t.Errorf("missing rule warning: %v", diag.Items())
	}
	if !diagContains(diag, "style 'nested' in rule '.ok'") {
		t.Errorf("missing property warning: %v", diag.Items())
	}
}

func TestEmitCSS_Empty(t *testing.T) {
	if got := EmitCSS(NewMap(), nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := EmitCSS(nil, nil); got != "" {
		t.Fatalf("expected empty output for nil styles, got %q", got)
	}
}

func TestKebabCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"backgroundColor", "background-color"},
		{"color", "color"},
		{"borderTopLeftRadius", "border-top-left-radius"},
		{"WebkitTransition", "-webkit-transition"},
		{"font-size", "font-size"},
		{"zIndex2", "z-index2"},
		{"ÉtéX", "Été-x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := KebabCase(tt.in); got != tt.want {
			t.Errorf("KebabCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
