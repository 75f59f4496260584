package markup

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTag is used when an element names neither a tag nor a component.
const DefaultTag = "div"

var tagRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// Materializer walks element definitions and realizes them through a Sink.
type Materializer struct {
	defs     *Definitions
	sink     Sink
	handlers HandlerCompiler
	diag     *Diagnostics
	res      *Resolver

	// expanding holds the components whose subtree is being built.
	expanding []string
}

// NewMaterializer returns a Materializer over defs. A nil handlers compiler
// rejects every event binding.
func NewMaterializer(defs *Definitions, sink Sink, handlers HandlerCompiler, diag *Diagnostics) *Materializer {
	if handlers == nil {
		handlers = rejectAll{}
	}
	if defs == nil {
		defs = NewDefinitions()
	}
	return &Materializer{
		defs:     defs,
		sink:     sink,
		handlers: handlers,
		diag:     diag,
		res:      NewResolver(defs.Variables, diag),
	}
}

// Materialize builds the node for a single-key element definition.
func (m *Materializer) Materialize(def Value) (Handle, error) {
	el, ok := AsElementDef(def)
	if !ok {
		m.diag.Errorf("invalid element definition structure: expected a single-key map")
		return nil, fmt.Errorf("path=<root>: %w", ErrInvalidDefinition)
	}
	return m.MaterializeElement(el)
}

// MaterializeElement builds the node for el and, recursively, its children.
// It returns an error when the node cannot be created; problems confined to a
// single property or child are recorded as diagnostics instead.
func (m *Materializer) MaterializeElement(el ElementDef) (Handle, error) {
	return m.element(el, el.Name)
}

func (m *Materializer) element(el ElementDef, path string) (Handle, error) {
	props, ok := el.Props.(*Map)
	if !ok {
		m.diag.Errorf("invalid element definition structure for '%s': properties are not a map", el.Name)
		return nil, fmt.Errorf("path=%s: %w", path, ErrInvalidDefinition)
	}

	tag, effective, component, err := m.resolve(el.Name, props, path)
	if err != nil {
		return nil, err
	}
	if !tagRe.MatchString(tag) {
		m.diag.Errorf("invalid or missing tag name '%s' for element '%s'", tag, el.Name)
		return nil, fmt.Errorf("path=%s: %w: %q", path, ErrInvalidTag, tag)
	}

	if component != "" {
		m.expanding = append(m.expanding, component)
		defer func() { m.expanding = m.expanding[:len(m.expanding)-1] }()
	}

	h := m.sink.CreateNode(tag)
	effective.Each(func(key string, value Value) {
		if key == "element" {
			return
		}
		m.property(h, el.Name, path, key, value)
	})
	return h, nil
}

// resolve picks the tag and the effective properties of an element: an
// explicit `element` wins, then a registered component, then DefaultTag.
// A component instance's own properties are discarded.
func (m *Materializer) resolve(name string, props *Map, path string) (tag string, effective *Map, component string, err error) {
	if v, ok := props.Get("element"); ok {
		tag, err := m.tagOf(name, v, path)
		return tag, props, "", err
	}

	cv, ok := m.defs.Components.Get(name)
	if !ok {
		m.diag.Warnf("element '%s' has no 'element:' tag and is not a defined component; defaulting to '%s'", name, DefaultTag)
		return DefaultTag, props, "", nil
	}

	for _, c := range m.expanding {
		if c == name {
			m.diag.Errorf("component '%s' includes itself (%s)", name, strings.Join(append(m.expanding, name), " -> "))
			return "", nil, "", fmt.Errorf("path=%s: %w: %s", path, ErrComponentCycle, name)
		}
	}

	cprops, ok := cv.(*Map)
	if !ok {
		m.diag.Errorf("component '%s' has no properties map", name)
		return "", nil, "", fmt.Errorf("path=%s: %w: component %s", path, ErrInvalidDefinition, name)
	}
	v, ok := cprops.Get("element")
	if !ok {
		m.diag.Warnf("component '%s' does not specify a root 'element:'; defaulting to '%s'", name, DefaultTag)
		return DefaultTag, cprops, name, nil
	}
	tag, err = m.tagOf(name, v, path)
	return tag, cprops, name, err
}

func (m *Materializer) tagOf(name string, v Value, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		m.diag.Errorf("invalid or missing tag name '%v' for element '%s'", v, name)
		return "", fmt.Errorf("path=%s: %w: %v", path, ErrInvalidTag, v)
	}
	return s, nil
}

// property dispatches one entry of the effective properties.
func (m *Materializer) property(h Handle, name, path, key string, value Value) {
	switch key {
	case "text":
		if !IsScalar(value) {
			m.diag.Warnf("'text' property value for element '%s' is not a scalar", name)
			return
		}
		m.sink.SetText(h, m.res.ExpandText(value))

	case "style":
		styles, ok := value.(*Map)
		if !ok {
			m.diag.Warnf("'style' property value for element '%s' is not a map: %v", name, value)
			return
		}
		styles.Each(func(prop string, v Value) {
			if !IsScalar(v) {
				m.diag.Warnf("style '%s' for element '%s' is not a scalar", prop, name)
				return
			}
			m.sink.SetStyleProperty(h, prop, m.res.ExpandText(v))
		})

	case "class":
		class, ok := value.(string)
		if !ok {
			m.diag.Warnf("'class' property value for element '%s' is not a string: %v", name, value)
			return
		}
		m.sink.SetClass(h, class)

	case "children":
		m.children(h, name, path, value)

	default:
		if src, ok := value.(string); ok && len(key) > 2 && strings.HasPrefix(key, "on") {
			m.bind(h, name, key, src)
			return
		}
		if value == nil {
			return
		}
		if !IsScalar(value) {
			m.diag.Warnf("attribute '%s' for element '%s' is not a scalar; skipped", key, name)
			return
		}
		m.sink.SetAttribute(h, key, m.res.Expand(value))
	}
}

func (m *Materializer) children(h Handle, name, path string, value Value) {
	seq, ok := value.(*Sequence)
	if !ok {
		m.diag.Warnf("'children' property value for element '%s' is not a sequence", name)
		return
	}
	for i, item := range seq.Items {
		el, ok := AsElementDef(item)
		if !ok {
			m.diag.Warnf("invalid child definition at index %d under element '%s'", i, name)
			continue
		}
		child, err := m.element(el, joinPath(path, el.Name))
		if err != nil {
			m.diag.Warnf("failed to create child element at index %d under element '%s'", i, name)
			continue
		}
		m.sink.AppendChild(h, child)
	}
}

// bind compiles an on<event> handler and attaches it. A handler that fails to
// compile is reported and left unattached.
func (m *Materializer) bind(h Handle, name, key, source string) {
	event := strings.ToLower(key)[2:]
	handler, err := m.handlers.Compile(source)
	if err != nil {
		m.diag.Errorf("invalid event handler '%s' for element '%s': %v", key, name, err)
		return
	}
	target := &Target{Sink: m.sink, Node: h}
	m.sink.AddEventListener(h, event, func(ev any) error {
		return handler(target, ev)
	})
}

func joinPath(parent, child string) string {
	return parent + "/" + child
}
