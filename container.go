package plugkit

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/plugkit/plugkit/internal/autowire"
)

// ContainerOptions configures a Container at construction.
type ContainerOptions struct {
	// Compiled enables the precomputed snapshot fast path for the initial
	// raw-value bindings. Direct Set registration stays legal at any time in
	// both modes: eager providers never register deferred factories after
	// boot starts, so freezing the definition map buys nothing here.
	Compiled bool

	// Debug enables overwrite diagnostics and the fallback log path for
	// non-error messages.
	Debug bool

	// Logger receives container diagnostics (key overwrites). Optional.
	Logger Logger
}

// Container maps string keys to resolved values with singleton caching.
//
// Container is NOT safe for concurrent use. It serves a single execution
// context for its entire lifetime; registration and resolution must happen
// from one goroutine.
type Container struct {
	id       string
	compiled bool
	debug    bool
	logger   Logger

	definitions map[string]*definition
	resolved    map[string]any // singleton cache

	// snapshot serves compiled-mode lookups without touching the definition
	// map. Populated with the initial raw values and kept in sync as keys
	// resolve.
	snapshot *gocache.Cache

	types     *typeIndex
	resolving []string // resolution stack for cycle detection
	wirer     *autowire.Wirer
}

// NewContainer creates a Container from an ordered set of initial bindings.
// Later bindings for the same key win. A nil opts means a dynamic,
// non-debug container.
func NewContainer(bindings []Binding, opts *ContainerOptions) *Container {
	if opts == nil {
		opts = &ContainerOptions{}
	}

	c := &Container{
		id:          uuid.NewString(),
		compiled:    opts.Compiled,
		debug:       opts.Debug,
		logger:      opts.Logger,
		definitions: make(map[string]*definition, len(bindings)),
		resolved:    make(map[string]any),
		types:       newTypeIndex(),
		wirer:       autowire.NewWirer(),
	}

	if c.compiled {
		c.snapshot = gocache.New(gocache.NoExpiration, 0)
	}

	for _, b := range bindings {
		def := newDefinition(b.Value)
		c.definitions[b.Key] = def
		if def.kind == valueDefinition {
			c.types.record(def.value, b.Key)
			if c.compiled {
				c.snapshot.Set(b.Key, def.value, gocache.NoExpiration)
			}
		}
	}

	return c
}

// ID returns the unique identifier for this container instance.
func (c *Container) ID() string {
	return c.id
}

// Compiled reports whether the container serves resolutions from a
// precomputed snapshot.
func (c *Container) Compiled() bool {
	return c.compiled
}

// Get resolves the value bound under key. Factory and autowire definitions
// are evaluated once; repeated calls return the identical value. Returns
// NotFoundError for a key that was never defined and ResolutionError when a
// defined key fails to evaluate, including dependency cycles.
func (c *Container) Get(key string) (any, error) {
	if c.compiled {
		if v, ok := c.snapshot.Get(key); ok {
			return v, nil
		}
	}

	if v, ok := c.resolved[key]; ok {
		return v, nil
	}

	def, ok := c.definitions[key]
	if !ok {
		return nil, NotFoundError{Key: key}
	}

	for _, active := range c.resolving {
		if active == key {
			chain := append(append([]string{}, c.resolving...), key)
			return nil, ResolutionError{Key: key, Cause: CircularDependencyError{Key: key, Chain: chain}}
		}
	}

	c.resolving = append(c.resolving, key)
	v, err := c.evaluate(def)
	c.resolving = c.resolving[:len(c.resolving)-1]

	if err != nil {
		return nil, ResolutionError{Key: key, Cause: err}
	}

	c.resolved[key] = v
	c.types.record(v, key)
	if c.compiled {
		c.snapshot.Set(key, v, gocache.NoExpiration)
	}

	return v, nil
}

// evaluate produces a value from a definition, converting factory panics to
// errors.
func (c *Container) evaluate(def *definition) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("factory panicked: %v", rec)
		}
	}()

	switch def.kind {
	case valueDefinition:
		return def.value, nil
	case factoryDefinition:
		return def.factory(c)
	case autowireDefinition:
		return c.wirer.Construct(def.target, nil, containerResolver{c})
	default:
		return nil, fmt.Errorf("unknown definition kind %d", def.kind)
	}
}

// Has reports whether key is defined. Never errors.
func (c *Container) Has(key string) bool {
	if c.compiled {
		if _, ok := c.snapshot.Get(key); ok {
			return true
		}
	}
	if _, ok := c.resolved[key]; ok {
		return true
	}
	_, ok := c.definitions[key]
	return ok
}

// Set registers or replaces the definition under key. Funcs of shape
// func(*Container) (any, error) or func(*Container) any are factories;
// anything else is stored as a raw value. Last write wins; an overwrite of
// an existing key is reported at debug level when a logger is attached.
// Aliases snapshotted from a previous definition keep their old value.
func (c *Container) Set(key string, value any) {
	if _, exists := c.definitions[key]; exists && c.logger != nil {
		c.logger.Log(LevelDebug, fmt.Sprintf("container %s: redefining %q", c.id, key))
	}

	def := newDefinition(value)
	c.definitions[key] = def
	delete(c.resolved, key)

	if c.compiled {
		c.snapshot.Delete(key)
		if def.kind == valueDefinition {
			c.snapshot.Set(key, def.value, gocache.NoExpiration)
		}
	}

	if def.kind == valueDefinition {
		c.types.record(def.value, key)
	}
}

// Autowire registers an explicit auto-wire definition: the first Get of key
// constructs a fresh instance of the template's type and caches it. The
// template may be a reflect.Type or a typed nil like (*Service)(nil).
func (c *Container) Autowire(key string, template any) error {
	t := autowire.TypeOf(template)
	if t == nil {
		return NotFoundError{Key: key, Cause: ErrTemplateNil}
	}

	if _, exists := c.definitions[key]; exists && c.logger != nil {
		c.logger.Log(LevelDebug, fmt.Sprintf("container %s: redefining %q", c.id, key))
	}

	c.definitions[key] = &definition{kind: autowireDefinition, target: t}
	delete(c.resolved, key)
	if c.compiled {
		c.snapshot.Delete(key)
	}

	return nil
}

// Alias resolves existingKey immediately and binds newKey to that concrete
// value. Aliases are snapshots, not live references: a later Set of
// existingKey does not change what newKey resolves to. Aliasing an undefined
// target fails with NotFoundError, which is why alias ordering matters.
func (c *Container) Alias(newKey, existingKey string) error {
	v, err := c.Get(existingKey)
	if err != nil {
		return err
	}

	c.definitions[newKey] = &definition{kind: valueDefinition, value: v}
	c.resolved[newKey] = v
	if c.compiled {
		c.snapshot.Set(newKey, v, gocache.NoExpiration)
	}

	return nil
}

// Make auto-wires a fresh instance of the template's type, bypassing the
// singleton cache entirely. Extras override injection: a map[string]any
// extra supplies fields by name, other extras match fields by assignable
// type. Returns NotFoundError when the template is nil or not a
// constructible type, ResolutionError for any other construction failure.
func (c *Container) Make(template any, extras ...any) (any, error) {
	t := autowire.TypeOf(template)
	if t == nil {
		return nil, NotFoundError{Key: "<nil>", Cause: ErrTemplateNil}
	}

	v, err := c.wirer.Construct(t, extras, containerResolver{c})
	if err != nil {
		if isNotConstructible(err) {
			return nil, NotFoundError{Key: t.String(), Cause: err}
		}
		return nil, ResolutionError{Key: t.String(), Cause: err}
	}

	return v, nil
}

// Call invokes any function-like value, resolving parameters by declared
// type from the container and falling back to extras of assignable type.
// Failures are wrapped in ResolutionError with the underlying cause.
func (c *Container) Call(fn any, extras ...any) (any, error) {
	v, err := c.wirer.Invoke(fn, extras, containerResolver{c})
	if err != nil {
		return nil, ResolutionError{Key: callableName(fn), Cause: err}
	}
	return v, nil
}

// Keys returns all defined keys, for diagnostics. Order is unspecified.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.definitions))
	for k := range c.definitions {
		keys = append(keys, k)
	}
	return keys
}

func isNotConstructible(err error) bool {
	return errors.Is(err, autowire.ErrNotConstructible) || errors.Is(err, autowire.ErrNilType)
}

func callableName(fn any) string {
	if fn == nil {
		return "<nil>"
	}
	return reflect.TypeOf(fn).String()
}

// ========================================
// Type index
// ========================================

var containerType = reflect.TypeOf((*Container)(nil))

// typeIndex records the concrete type of each bound value so Call and Make
// can resolve parameters and fields by declared type. First registration
// wins for a given type; interface lookups match the first assignable entry
// in registration order.
type typeIndex struct {
	order []reflect.Type
	keys  map[reflect.Type]string
}

func newTypeIndex() *typeIndex {
	return &typeIndex{keys: make(map[reflect.Type]string)}
}

func (ti *typeIndex) record(v any, key string) {
	if v == nil {
		return
	}
	t := reflect.TypeOf(v)
	if !serviceKind(t.Kind()) {
		return
	}
	if _, ok := ti.keys[t]; ok {
		return
	}
	ti.keys[t] = key
	ti.order = append(ti.order, t)
}

func (ti *typeIndex) lookup(want reflect.Type) (string, bool) {
	if !serviceKind(want.Kind()) {
		return "", false
	}
	if key, ok := ti.keys[want]; ok {
		return key, true
	}
	if want.Kind() == reflect.Interface {
		for _, t := range ti.order {
			if t.Implements(want) {
				return ti.keys[t], true
			}
		}
	}
	return "", false
}

// serviceKind reports whether values of kind k participate in by-type
// resolution. Scalars never do: injecting "whichever string happens to be
// bound" is a misconfiguration magnet.
func serviceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Struct, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// containerResolver bridges the container to the autowire package.
type containerResolver struct {
	c *Container
}

func (r containerResolver) ResolveKey(key string) (any, error) {
	return r.c.Get(key)
}

func (r containerResolver) ResolveType(t reflect.Type) (any, bool, error) {
	if t == containerType || (t.Kind() == reflect.Interface && containerType.Implements(t)) {
		return r.c, true, nil
	}

	key, ok := r.c.types.lookup(t)
	if !ok {
		return nil, false, nil
	}

	v, err := r.c.Get(key)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}
