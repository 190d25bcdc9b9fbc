// Package chi provides plugkit integration for the Chi router.
//
// This package provides middleware for attaching a plugin to the request
// context and a handler wrapper for resolving handlers from the plugin
// container.
//
// Example usage:
//
//	plugin, _ := builder.Build()
//
//	r := chi.NewRouter()
//	r.Use(plugkitchi.PluginMiddleware(plugin))
//
//	r.Get("/cart", plugkitchi.Handle(plugin, "http.cart"))
package chi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plugkit/plugkit"
)

type ctxKey struct{}

// Config holds the configuration for the plugin middleware and handler
// wrapper.
type Config struct {
	// ErrorHandler is called when a handler cannot be resolved from the
	// plugin container. If nil, a default handler returning 500 Internal
	// Server Error is used and the failure is logged with slog.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// Option configures the middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for handler resolution failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve handler", "path", r.URL.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// PluginMiddleware creates a Chi middleware that attaches the plugin to each
// request's context. Retrieve it downstream with FromContext.
//
//	r := chi.NewRouter()
//	r.Use(plugkitchi.PluginMiddleware(plugin))
func PluginMiddleware(plugin *plugkit.Plugin) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, plugin))
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext returns the plugin attached by PluginMiddleware, if any.
func FromContext(ctx context.Context) (*plugkit.Plugin, bool) {
	plugin, ok := ctx.Value(ctxKey{}).(*plugkit.Plugin)
	return plugin, ok
}

// Handle resolves an http.Handler from the plugin container under key at
// request time and serves the request with it. Resolution failures go to
// the configured error handler.
func Handle(plugin *plugkit.Plugin, key string, opts ...Option) http.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		v, err := plugin.Get(key)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		handler, ok := v.(http.Handler)
		if !ok {
			cfg.ErrorHandler(w, r, plugkit.PluginError{
				Path: plugin.File(),
				Op:   "get",
				Cause: plugkit.ResolutionError{
					Key:   key,
					Cause: errNotHandler,
				},
			})
			return
		}

		handler.ServeHTTP(w, r)
	}
}

var errNotHandler = errors.New("resolved value does not implement http.Handler")
