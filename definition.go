package plugkit

import "reflect"

// Factory builds a value from the container. Factories registered through
// Set may also use the shorthand shape func(*Container) any.
type Factory func(c *Container) (any, error)

// Binding is one initial key binding handed to NewContainer or a Builder.
type Binding struct {
	Key   string
	Value any
}

// definitionKind discriminates the definition variants. Aliases do not get a
// kind of their own: Alias snapshots the resolved target into a value
// definition at creation time.
type definitionKind uint8

const (
	valueDefinition definitionKind = iota
	factoryDefinition
	autowireDefinition
)

func (k definitionKind) String() string {
	switch k {
	case valueDefinition:
		return "value"
	case factoryDefinition:
		return "factory"
	case autowireDefinition:
		return "autowire"
	default:
		return "unknown"
	}
}

// definition is the tagged variant behind every container key.
type definition struct {
	kind    definitionKind
	value   any          // valueDefinition
	factory Factory      // factoryDefinition
	target  reflect.Type // autowireDefinition
}

// asFactory normalizes the supported factory shapes. Anything else is a raw
// value, including funcs of other signatures.
func asFactory(v any) (Factory, bool) {
	switch f := v.(type) {
	case Factory:
		return f, true
	case func(*Container) (any, error):
		return f, true
	case func(*Container) any:
		return func(c *Container) (any, error) { return f(c), nil }, true
	}
	return nil, false
}

// newDefinition classifies a Set argument into a value or factory definition.
func newDefinition(v any) *definition {
	if f, ok := asFactory(v); ok {
		return &definition{kind: factoryDefinition, factory: f}
	}
	return &definition{kind: valueDefinition, value: v}
}
