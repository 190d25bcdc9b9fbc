package plugkit

import (
	"reflect"
	"slices"
)

const (
	defaultPriority = 10
	defaultArity    = 1
)

// ServiceProvider bundles a cohesive set of registrations and optional
// boot-time hook wiring. Every concrete provider must implement Register;
// Boot defaults to a no-op through the embedded BaseProvider.
//
// Register is invoked exactly once per provider instance during assembly,
// before any Boot runs anywhere in the system. Do not resolve cross-provider
// services there; use Boot, which runs after every provider has registered.
//
// The unexported methods are satisfied by embedding BaseProvider:
//
//	type CacheProvider struct {
//	    plugkit.BaseProvider
//	}
//
//	func (p *CacheProvider) Register() error {
//	    p.Bind("cache.store", func(c *plugkit.Container) (any, error) {
//	        return newStore(), nil
//	    })
//	    return nil
//	}
type ServiceProvider interface {
	Register() error
	Boot() error

	attach(c *Container, hooks Registrar)
	markRegistered() bool
	markBooted() bool
	isRegistered() bool
	isBooted() bool
}

// BaseProvider carries the shared container reference, the hook registrar,
// and the monotonic registered/booted flags. Embed it by value; its helper
// surface is only valid once assembly has attached the provider, i.e. inside
// Register and Boot.
type BaseProvider struct {
	container  *Container
	hooks      Registrar
	registered bool
	booted     bool
}

func (p *BaseProvider) attach(c *Container, hooks Registrar) {
	p.container = c
	p.hooks = hooks
}

// markRegistered flips the registered flag and reports whether this call
// performed the transition. Idempotent after the first call.
func (p *BaseProvider) markRegistered() bool {
	if p.registered {
		return false
	}
	p.registered = true
	return true
}

func (p *BaseProvider) markBooted() bool {
	if p.booted {
		return false
	}
	p.booted = true
	return true
}

func (p *BaseProvider) isRegistered() bool { return p.registered }
func (p *BaseProvider) isBooted() bool     { return p.booted }

// Boot is the default no-op boot step. Override it for work that needs all
// providers' registrations to be visible.
func (p *BaseProvider) Boot() error { return nil }

// Container returns the shared container this provider registers into.
func (p *BaseProvider) Container() *Container { return p.container }

// Hooks returns the hook registrar handed to this provider at assembly.
func (p *BaseProvider) Hooks() Registrar { return p.hooks }

// Bind registers value-or-factory under key.
func (p *BaseProvider) Bind(key string, value any) {
	p.container.Set(key, value)
}

// Shared registers value-or-factory under key. Identical to Bind: the
// container already treats every definition as a cached singleton. Retained
// for API clarity.
func (p *BaseProvider) Shared(key string, value any) {
	p.container.Set(key, value)
}

// Alias binds newKey to the already-resolved value of existingKey. The
// target must resolve at call time.
func (p *BaseProvider) Alias(newKey, existingKey string) error {
	return p.container.Alias(newKey, existingKey)
}

// RegisterServices registers every entry of services, in sorted key order
// for determinism. Value and factory registrations cannot fail.
func (p *BaseProvider) RegisterServices(services map[string]any) {
	keys := make([]string, 0, len(services))
	for key := range services {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		p.container.Set(key, services[key])
	}
}

// RegisterAliases applies every alias (new key -> existing key) in sorted
// key order. A failure partway through leaves earlier aliases in place; no
// rollback.
func (p *BaseProvider) RegisterAliases(aliases map[string]string) error {
	newKeys := make([]string, 0, len(aliases))
	for newKey := range aliases {
		newKeys = append(newKeys, newKey)
	}
	slices.Sort(newKeys)
	for _, newKey := range newKeys {
		if err := p.container.Alias(newKey, aliases[newKey]); err != nil {
			return err
		}
	}
	return nil
}

// AddAction registers a fire-and-forget callback with the hook registrar.
// Default priority 10, default arity 1.
func (p *BaseProvider) AddAction(name string, fn HookCallback, opts ...HookOption) {
	o := applyHookOptions(opts)
	p.hooks.AddAction(name, fn, o.priority, o.arity)
}

// AddFilter registers a value-threading callback with the hook registrar.
// Default priority 10, default arity 1 (the threaded value itself).
func (p *BaseProvider) AddFilter(name string, fn HookCallback, opts ...HookOption) {
	o := applyHookOptions(opts)
	p.hooks.AddFilter(name, fn, o.priority, o.arity)
}

// Call forwards to Container.Call.
func (p *BaseProvider) Call(fn any, extras ...any) (any, error) {
	return p.container.Call(fn, extras...)
}

// Make forwards to Container.Make.
func (p *BaseProvider) Make(template any, extras ...any) (any, error) {
	return p.container.Make(template, extras...)
}

// HookOption modifies the default priority or arity of an AddAction or
// AddFilter registration.
type HookOption func(*hookOptions)

type hookOptions struct {
	priority int
	arity    int
}

// WithPriority overrides the default hook priority of 10. Lower priorities
// fire first.
func WithPriority(priority int) HookOption {
	return func(o *hookOptions) { o.priority = priority }
}

// WithArity overrides how many dispatched arguments the callback receives.
// Use ArityAll for no cap.
func WithArity(arity int) HookOption {
	return func(o *hookOptions) { o.arity = arity }
}

func applyHookOptions(opts []HookOption) hookOptions {
	o := hookOptions{priority: defaultPriority, arity: defaultArity}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// providerName reports the concrete type name of a provider for error
// context, pointers dereferenced.
func providerName(p ServiceProvider) string {
	if p == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(p)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
