package plugkit

import "fmt"

// Builder assembles a Plugin: initial container bindings, the ordered
// provider list, and the host collaborators. Build runs every provider's
// Register step to completion before returning the plugin; Boot is left to
// the caller.
//
//	plugin, err := plugkit.NewBuilder("/srv/plugins/shop/shop.go").
//	    Bind(plugkit.SlugKey, "shop").
//	    Use(&CacheProvider{}, &CheckoutProvider{}).
//	    Build()
type Builder struct {
	file      string
	bindings  []Binding
	providers []ServiceProvider
	hooks     Registrar
	events    Dispatcher
	logger    Logger
	compiled  bool
	debug     bool
}

// NewBuilder creates a Builder for the plugin identified by file. The path
// is opaque: it is used only for diagnostics and basename metadata.
func NewBuilder(file string) *Builder {
	return &Builder{file: file}
}

// Compiled selects compiled resolution mode for the container.
func (b *Builder) Compiled(on bool) *Builder {
	b.compiled = on
	return b
}

// Debug enables diagnostic logging in the container and the plugin's
// fallback log path.
func (b *Builder) Debug(on bool) *Builder {
	b.debug = on
	return b
}

// WithLogger sets the log collaborator. It is also bound under LoggerKey
// unless a provider or binding claims that key first.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// WithRegistrar substitutes the hook registrar handed to providers. Defaults
// to an in-memory HookBus.
func (b *Builder) WithRegistrar(r Registrar) *Builder {
	b.hooks = r
	return b
}

// WithDispatcher substitutes the lifecycle event dispatcher. Defaults to an
// EventBus on the hook registrar.
func (b *Builder) WithDispatcher(d Dispatcher) *Builder {
	b.events = d
	return b
}

// Bind appends one initial container binding. Later bindings for the same
// key win.
func (b *Builder) Bind(key string, value any) *Builder {
	b.bindings = append(b.bindings, Binding{Key: key, Value: value})
	return b
}

// BindAll appends initial container bindings in order.
func (b *Builder) BindAll(bindings ...Binding) *Builder {
	b.bindings = append(b.bindings, bindings...)
	return b
}

// Use appends providers to the boot order.
func (b *Builder) Use(providers ...ServiceProvider) *Builder {
	b.providers = append(b.providers, providers...)
	return b
}

// Apply runs builder options, typically modules, against this builder.
func (b *Builder) Apply(opts ...BuilderOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(b); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs the container from the collected bindings, attaches every
// provider, and runs each Register step in order. The first registration
// failure aborts assembly entirely: the error is wrapped in
// ProviderRegistrationError and no plugin is produced. A successful Register
// runs at most once per provider instance even when Build is invoked again;
// a failed one is retried on the next Build.
func (b *Builder) Build() (*Plugin, error) {
	hooks := b.hooks
	if hooks == nil {
		hooks = NewHookBus()
	}
	events := b.events
	if events == nil {
		events = NewEventBus(hooks)
	}

	container := NewContainer(b.bindings, &ContainerOptions{
		Compiled: b.compiled,
		Debug:    b.debug,
		Logger:   b.logger,
	})

	if b.logger != nil && !container.Has(LoggerKey) {
		container.Set(LoggerKey, b.logger)
	}

	for _, sp := range b.providers {
		if sp == nil {
			return nil, ProviderRegistrationError{Provider: "<nil>", Cause: ErrProviderNil}
		}

		sp.attach(container, hooks)
		if sp.isRegistered() {
			continue
		}
		if err := safeRegister(sp); err != nil {
			return nil, ProviderRegistrationError{Provider: providerName(sp), Cause: err}
		}
		sp.markRegistered()
	}

	providers := make([]ServiceProvider, len(b.providers))
	copy(providers, b.providers)

	return newPlugin(b.file, container, providers, hooks, events, b.debug), nil
}

// safeRegister runs a provider's Register step, converting panics to errors
// so assembly aborts cleanly for both failure shapes.
func safeRegister(sp ServiceProvider) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return sp.Register()
}

// BuilderOption is one registration action within a module.
type BuilderOption func(*Builder) error

// NewModule groups related builder options under a name. Failures are
// wrapped in ModuleError carrying the module name.
//
//	var StorageModule = plugkit.NewModule("storage",
//	    plugkit.WithBinding("storage.path", "/var/lib/shop"),
//	    plugkit.WithProviders(&StorageProvider{}),
//	)
func NewModule(name string, opts ...BuilderOption) BuilderOption {
	return func(b *Builder) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}
			if err := opt(b); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}
		return nil
	}
}

// WithBinding is the BuilderOption form of Builder.Bind.
func WithBinding(key string, value any) BuilderOption {
	return func(b *Builder) error {
		if key == "" {
			return ErrKeyEmpty
		}
		b.Bind(key, value)
		return nil
	}
}

// WithProviders is the BuilderOption form of Builder.Use.
func WithProviders(providers ...ServiceProvider) BuilderOption {
	return func(b *Builder) error {
		for _, sp := range providers {
			if sp == nil {
				return ErrProviderNil
			}
		}
		b.Use(providers...)
		return nil
	}
}
