// Package plugkit is a bootstrap runtime for modular plugins: a string-keyed
// dependency container, a provider-based registration and boot lifecycle,
// and a plugin orchestrator that sequences both and bridges to a host
// platform's prioritized hook system.
//
// # Overview
//
// A plugin is assembled from an ordered set of initial bindings and a list
// of service providers. Assembly runs every provider's Register step; a
// later, one-time Boot pass runs each provider's Boot step in order and
// finishes by dispatching a lifecycle event:
//
//	plugin, err := plugkit.NewBuilder("/srv/plugins/shop/shop.go").
//	    Bind(plugkit.SlugKey, "shop").
//	    Use(&CacheProvider{}, &CheckoutProvider{}).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := plugin.Boot(); err != nil {
//	    log.Fatal(err)
//	}
//
//	store, err := plugin.Get("cache.store")
//
// # Container
//
// The container maps string keys to singleton values. A definition is a raw
// value, a factory invoked once with the container, or an explicit
// auto-wire target constructed on first resolution. Aliases snapshot the
// resolved value of their target at creation time. Make bypasses the
// singleton cache and builds a fresh instance per call; Call invokes any
// function with parameters resolved by declared type.
//
// In compiled mode the container serves resolutions from a precomputed
// snapshot. Unlike most compiled containers, direct value and factory
// registration stays legal after construction in both modes.
//
// # Providers
//
// A provider embeds BaseProvider and implements Register; Boot is optional.
// Register populates the container, Boot performs work that needs every
// provider's registrations to be visible, including hook registration:
//
//	func (p *CheckoutProvider) Boot() error {
//	    p.AddFilter("checkout.total", applyDiscount, plugkit.WithPriority(20))
//	    return nil
//	}
//
// # Errors
//
// Resolution failures split into NotFoundError (key never defined) and
// ResolutionError (defined but evaluation failed). Lifecycle failures are
// wrapped in ProviderRegistrationError and ProviderBootError with the
// provider's type name. Plugin proxy operations add plugin context through
// PluginError while preserving the underlying kind for errors.As.
//
// # Concurrency
//
// The runtime is single-threaded by design: one container serves one
// execution context for its lifetime, and callers must not register or
// resolve concurrently without external synchronization.
package plugkit
