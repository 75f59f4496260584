// Package markupyaml converts markup definitions to and from YAML.
//
// The YAML shape mirrors the markup sections:
//
//	page:       { <Name>: { element: div, ... } }
//	components: { <Name>: { ... } }
//	variables:  { <name>: <scalar> }
//	styles:     { <selector>: { <property>: <scalar> } }
//
// Key order is preserved in both directions.
package markupyaml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"runebind/cmd/runebind/markup"

	"gopkg.in/yaml.v3"
)

var sections = []string{
	markup.SectionPage,
	markup.SectionComponents,
	markup.SectionVariables,
	markup.SectionStyles,
}

// ---- Encode ----------------------------------------------------------------

// Encode writes defs as a YAML document. Empty sections are omitted.
func Encode(defs *markup.Definitions) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range sections {
		m := sectionOf(defs, name)
		if m.Len() == 0 {
			continue
		}
		v, err := encodeValue(m, name)
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, keyNode(name), v)
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	if len(root.Content) == 0 {
		return []byte("{}\n"), nil
	}
	return yaml.Marshal(doc)
}

func sectionOf(defs *markup.Definitions, name string) *markup.Map {
	switch name {
	case markup.SectionPage:
		return defs.Page
	case markup.SectionComponents:
		return defs.Components
	case markup.SectionVariables:
		return defs.Variables
	default:
		return defs.Styles
	}
}

func encodeValue(v markup.Value, path string) (*yaml.Node, error) {
	switch x := v.(type) {
	case *markup.Map:
		n := &yaml.Node{Kind: yaml.MappingNode}
		var err error
		x.Each(func(k string, val markup.Value) {
			if err != nil {
				return
			}
			var child *yaml.Node
			child, err = encodeValue(val, path+"/"+k)
			n.Content = append(n.Content, keyNode(k), child)
		})
		return n, err
	case *markup.Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for i, it := range x.Items {
			child, err := encodeValue(it, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(x)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: numberTag(x), Value: markup.FormatScalar(x)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(x)}, nil
	default:
		return nil, fmt.Errorf("phase=encode path=%s: unsupported value of type %T", path, v)
	}
}

// numberTag picks the tag YAML would infer for the formatted number, so the
// encoder does not print an explicit !!float on integral values.
func numberTag(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return "!!int"
	}
	return "!!float"
}

func keyNode(k string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
}

// ---- Decode ----------------------------------------------------------------

// Decode reads a YAML document produced by Encode (or written by hand in the
// same shape). An empty document yields empty definitions.
func Decode(in []byte) (*markup.Definitions, error) {
	defs := markup.NewDefinitions()

	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, fmt.Errorf("phase=decode path=<doc>: %w", err)
	}
	if len(docNode.Content) == 0 {
		return defs, nil
	}
	root := docNode.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("phase=decode path=<doc>: expected a mapping, got YAML kind %d", root.Kind)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		body := root.Content[i+1]
		if !isSection(name) {
			return nil, fmt.Errorf("phase=decode path=<doc>: unknown section %q", name)
		}
		if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
			continue
		}
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("phase=decode path=%s: section must be a mapping", name)
		}
		v, err := decodeValue(body, name)
		if err != nil {
			return nil, err
		}
		m := v.(*markup.Map)
		switch name {
		case markup.SectionPage:
			if m.Len() > 0 {
				defs.Page = m
			}
		case markup.SectionComponents:
			defs.Components = m
		case markup.SectionVariables:
			defs.Variables = m
		case markup.SectionStyles:
			defs.Styles = m
		}
	}
	return defs, nil
}

func isSection(name string) bool {
	for _, s := range sections {
		if s == name {
			return true
		}
	}
	return false
}

func decodeValue(n *yaml.Node, path string) (markup.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeValue(n.Alias, path)

	case yaml.MappingNode:
		// MappingNode.Content alternates key and value nodes.
		m := markup.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := decodeValue(n.Content[i+1], path+"/"+key)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		return m, nil

	case yaml.SequenceNode:
		seq := &markup.Sequence{}
		for i, item := range n.Content {
			v, err := decodeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil

	case yaml.ScalarNode:
		return decodeScalar(n, path)

	default:
		return nil, fmt.Errorf("phase=decode path=%s: unexpected YAML kind %d", path, n.Kind)
	}
}

func decodeScalar(n *yaml.Node, path string) (markup.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		// A bare `Name:` opens an empty scope in the markup, so it does here.
		if strings.HasSuffix(path, "/children") {
			return &markup.Sequence{}, nil
		}
		return markup.NewMap(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("phase=decode path=%s: %w", path, err)
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("phase=decode path=%s: %w", path, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return n.Value, nil
		}
		return f, nil
	default:
		return n.Value, nil
	}
}
