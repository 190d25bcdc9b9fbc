package plugkit

import (
	"errors"
	"fmt"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.
// Never return these directly to users - always wrap them with context.

var (
	// Definition errors.
	ErrKeyEmpty    = errors.New("definition key cannot be empty")
	ErrTemplateNil = errors.New("autowire template cannot be nil")

	// Lifecycle errors.
	ErrProviderNil   = errors.New("service provider cannot be nil")
	ErrDispatcherNil = errors.New("event dispatcher is not configured")
)

var (
	_ error = NotFoundError{}
	_ error = ResolutionError{}
	_ error = CircularDependencyError{}
	_ error = ProviderRegistrationError{}
	_ error = ProviderBootError{}
	_ error = PluginError{}
	_ error = ModuleError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================
// Always use these typed errors instead of fmt.Errorf() or errors.New()
// for domain-specific errors. Wrap sentinel errors with these types.

// NotFoundError indicates a container key or autowire type was never defined.
// Callers can treat this as "service not configured" and recover.
type NotFoundError struct {
	Key   string
	Cause error
}

func (e NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service not found: %q: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("service not found: %q", e.Key)
}

func (e NotFoundError) Unwrap() error {
	return e.Cause
}

// ResolutionError indicates a key or type is defined but its evaluation
// failed: a factory returned an error or panicked, an auto-wired field could
// not be satisfied, or a dependency cycle was detected. The underlying cause
// is preserved and never retried.
type ResolutionError struct {
	Key   string
	Cause error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("resolution of %q failed: %v", e.Key, e.Cause)
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError reports a factory chain that requested a key
// already being resolved. Chain lists the keys from the outermost request
// down to the repeated one.
type CircularDependencyError struct {
	Key   string
	Chain []string
}

func (e CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected for %q: %s", e.Key, strings.Join(e.Chain, " -> "))
}

// ProviderRegistrationError wraps a failure raised from a provider's
// Register step. Assembly is aborted entirely; no plugin is produced.
type ProviderRegistrationError struct {
	Provider string
	Cause    error
}

func (e ProviderRegistrationError) Error() string {
	return fmt.Sprintf("provider %s: register failed: %v", e.Provider, e.Cause)
}

func (e ProviderRegistrationError) Unwrap() error {
	return e.Cause
}

// ProviderBootError wraps a failure raised from a provider's Boot step.
// Providers booted before the failing one stay booted; the remainder of the
// boot sequence is abandoned.
type ProviderBootError struct {
	Provider string
	Cause    error
}

func (e ProviderBootError) Error() string {
	return fmt.Sprintf("provider %s: boot failed: %v", e.Provider, e.Cause)
}

func (e ProviderBootError) Unwrap() error {
	return e.Cause
}

// PluginError wraps container failures surfaced through a Plugin proxy
// operation, adding the plugin identity for context. Unwrap preserves the
// original error so callers can still branch on NotFoundError vs
// ResolutionError with errors.As.
type PluginError struct {
	Path  string
	Op    string // "get" or "make"
	Cause error
}

func (e PluginError) Error() string {
	return fmt.Sprintf("%s in plugin container (%s): %v", e.Op, e.Path, e.Cause)
}

func (e PluginError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module application during assembly.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsResolution reports whether err is, or wraps, a ResolutionError.
func IsResolution(err error) bool {
	var re ResolutionError
	return errors.As(err, &re)
}
