package markup

import (
	"fmt"
	"strings"
)

// Handle identifies a node created by a Sink. Its concrete type belongs to the
// sink.
type Handle any

// Listener is an event callback attached to a node. The node it was bound to
// is already captured; it receives only the triggering event.
type Listener func(event any) error

// Sink is the capability set the materializer renders through. It decouples
// the interpreter from any concrete surface.
type Sink interface {
	CreateNode(tag string) Handle
	SetText(h Handle, text string)
	SetStyleProperty(h Handle, name, value string)
	SetClass(h Handle, class string)
	SetAttribute(h Handle, name string, value Scalar)
	AppendChild(parent, child Handle)
	AddEventListener(h Handle, event string, l Listener)
	InjectGlobalCSS(css string)
}

// Target is the receiver a handler runs against: a node and the sink that
// owns it. Its methods return the target so calls can be chained.
type Target struct {
	Sink Sink
	Node Handle
}

func (t *Target) SetText(text string) *Target {
	t.Sink.SetText(t.Node, text)
	return t
}

func (t *Target) SetClass(class string) *Target {
	t.Sink.SetClass(t.Node, class)
	return t
}

func (t *Target) SetAttribute(name string, value any) *Target {
	t.Sink.SetAttribute(t.Node, name, value)
	return t
}

func (t *Target) SetStyle(name, value string) *Target {
	t.Sink.SetStyleProperty(t.Node, name, value)
	return t
}

// Handler is a compiled event handler.
type Handler func(this *Target, event any) error

// HandlerCompiler turns handler source text from the markup into a Handler.
// A compile error means the binding is not attached.
type HandlerCompiler interface {
	Compile(source string) (Handler, error)
}

// NamedHandlers is a HandlerCompiler that only accepts the names of
// pre-registered handlers. Any other source text is rejected.
type NamedHandlers struct {
	handlers map[string]Handler
}

// NewNamedHandlers returns an empty registry.
func NewNamedHandlers() *NamedHandlers {
	return &NamedHandlers{handlers: make(map[string]Handler)}
}

// Register adds a handler under name. Registering a name twice is an error.
func (n *NamedHandlers) Register(name string, h Handler) error {
	if _, exists := n.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	n.handlers[name] = h
	return nil
}

// Compile looks source up as a handler name. A trailing "()" is tolerated so
// that `onClick: toggle()` and `onClick: toggle` are equivalent.
func (n *NamedHandlers) Compile(source string) (Handler, error) {
	name := strings.TrimSuffix(strings.TrimSpace(source), "()")
	if h, ok := n.handlers[name]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %q is not a registered handler", ErrHandlerRejected, source)
}

// rejectAll is used when no compiler is configured.
type rejectAll struct{}

func (rejectAll) Compile(source string) (Handler, error) {
	return nil, fmt.Errorf("%w: no handler compiler configured", ErrHandlerRejected)
}
