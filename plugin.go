package plugkit

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// SlugKey is the reserved container key holding the configured identifier
// from which lifecycle event names are derived.
const SlugKey = "plugkit.slug"

const bootedEventSuffix = "booted"

// Plugin is the orchestrator: it exclusively owns one Container, holds the
// plugin's file-path identity, and drives the one-time provider boot
// sequence. Construct one through a Builder.
type Plugin struct {
	id        string
	file      string
	container *Container
	providers []ServiceProvider
	hooks     Registrar
	events    Dispatcher
	debug     bool
	booted    bool
}

// ID returns the unique identifier for this plugin instance.
func (p *Plugin) ID() string { return p.id }

// File returns the plugin's identifying file path. Diagnostic only.
func (p *Plugin) File() string { return p.file }

// Basename returns the final element of the plugin's file path.
func (p *Plugin) Basename() string { return filepath.Base(p.file) }

// Container returns the container owned by this plugin.
func (p *Plugin) Container() *Container { return p.container }

// Hooks returns the hook registrar shared with the plugin's providers.
func (p *Plugin) Hooks() Registrar { return p.hooks }

// Booted reports whether the boot sequence has completed successfully.
func (p *Plugin) Booted() bool { return p.booted }

// Boot runs each provider's Boot step in registration order, exactly once.
// Calling Boot on an already-booted plugin is a no-op. The first boot
// failure is wrapped in ProviderBootError and returned immediately:
// providers booted before it stay booted, the rest never boot, and the
// plugin itself stays un-booted. On success the plugin dispatches the
// "<slug>.booted" lifecycle event; a dispatch failure is logged, never
// surfaced.
func (p *Plugin) Boot() error {
	if p.booted {
		return nil
	}

	for _, sp := range p.providers {
		if sp.isBooted() {
			continue
		}
		if err := safeBoot(sp); err != nil {
			return ProviderBootError{Provider: providerName(sp), Cause: err}
		}
		sp.markBooted()
	}

	p.booted = true
	p.dispatchBooted()
	return nil
}

// safeBoot runs a provider's Boot step, converting panics to errors so the
// fail-fast contract holds for both.
func safeBoot(sp ServiceProvider) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return sp.Boot()
}

// dispatchBooted fires the completion event. Boot has already succeeded at
// this point, so every failure path here ends in a log write, not an error.
func (p *Plugin) dispatchBooted() {
	defer func() {
		if rec := recover(); rec != nil {
			p.Log(LevelError, fmt.Sprintf("booted event dispatch panicked: %v", rec))
		}
	}()

	slug, err := p.container.Get(SlugKey)
	if err != nil {
		p.Log(LevelError, fmt.Sprintf("cannot dispatch booted event: %v", err))
		return
	}
	name, ok := slug.(string)
	if !ok || name == "" {
		p.Log(LevelError, fmt.Sprintf("cannot dispatch booted event: %q is not a non-empty string", SlugKey))
		return
	}

	if p.events == nil {
		p.Log(LevelError, fmt.Sprintf("cannot dispatch booted event: %v", ErrDispatcherNil))
		return
	}

	if _, err := p.events.Dispatch(name+"."+bootedEventSuffix, p); err != nil {
		p.Log(LevelError, fmt.Sprintf("booted event dispatch failed: %v", err))
	}
}

// Get resolves key from the plugin container, wrapping failures with plugin
// context. The original error kind survives for errors.As.
func (p *Plugin) Get(key string) (any, error) {
	v, err := p.container.Get(key)
	if err != nil {
		return nil, PluginError{Path: p.file, Op: "get", Cause: err}
	}
	return v, nil
}

// Has reports whether key is defined in the plugin container.
func (p *Plugin) Has(key string) bool {
	return p.container.Has(key)
}

// Call forwards to Container.Call.
func (p *Plugin) Call(fn any, extras ...any) (any, error) {
	return p.container.Call(fn, extras...)
}

// Make auto-wires a fresh instance through the plugin container, wrapping
// failures with plugin context. The original error kind survives for
// errors.As.
func (p *Plugin) Make(template any, extras ...any) (any, error) {
	v, err := p.container.Make(template, extras...)
	if err != nil {
		return nil, PluginError{Path: p.file, Op: "make", Cause: err}
	}
	return v, nil
}

// Log writes through the log collaborator bound under LoggerKey when one
// resolves. Without one, messages fall through to the baseline process log
// in debug mode, or unconditionally at error level. Logging never panics;
// a collaborator failure ends in a final fallback write.
func (p *Plugin) Log(level, message string) {
	defer func() {
		if recover() != nil {
			fallbackLog(level, message)
		}
	}()

	if p.container.Has(LoggerKey) {
		if v, err := p.container.Get(LoggerKey); err == nil {
			if logger, ok := v.(Logger); ok {
				logger.Log(level, message)
				return
			}
		}
		// A collaborator is bound but cannot be obtained or used; the
		// message still gets a final fallback write.
		fallbackLog(level, message)
		return
	}

	if p.debug || level == LevelError {
		fallbackLog(level, message)
	}
}

// newPlugin is the assembly-side constructor; all invariants about provider
// registration are the Builder's responsibility.
func newPlugin(file string, c *Container, providers []ServiceProvider, hooks Registrar, events Dispatcher, debug bool) *Plugin {
	return &Plugin{
		id:        uuid.NewString(),
		file:      file,
		container: c,
		providers: providers,
		hooks:     hooks,
		events:    events,
		debug:     debug,
	}
}
