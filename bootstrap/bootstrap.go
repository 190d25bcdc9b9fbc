// Package bootstrap assembles the initial container bindings for a plugin
// from its file path and the process environment. It is glue in front of
// the core runtime: Load never fails, missing env files are ignored, and
// every value has a default.
package bootstrap

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/plugkit/plugkit"
)

// Reserved binding keys produced by Config.Bindings, alongside
// plugkit.SlugKey.
const (
	FileKey     = "plugin.file"
	BasenameKey = "plugin.basename"
	EnvKey      = "plugin.env"
	DebugKey    = "plugin.debug"
)

// Config holds the detected bootstrap configuration for one plugin.
type Config struct {
	// File is the plugin's identifying file path.
	File string

	// Env is the detected environment: "local", "testing", or "production".
	Env string

	// Debug reports whether diagnostic logging should be enabled.
	Debug bool

	// Slug is the identifier lifecycle event names derive from. Defaults to
	// the plugin file's basename without extension.
	Slug string
}

// Load reads the given env files (default ".env", non-fatal if absent) and
// detects the environment from APP_ENV, APP_DEBUG, and PLUGIN_SLUG.
func Load(pluginFile string, envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		File:  pluginFile,
		Env:   env("APP_ENV", "production"),
		Debug: envBool("APP_DEBUG", false),
		Slug:  env("PLUGIN_SLUG", Slug(pluginFile)),
	}
}

// Bindings returns the initial container bindings this configuration
// supplies.
func (c *Config) Bindings() []plugkit.Binding {
	return []plugkit.Binding{
		{Key: FileKey, Value: c.File},
		{Key: BasenameKey, Value: filepath.Base(c.File)},
		{Key: EnvKey, Value: c.Env},
		{Key: DebugKey, Value: c.Debug},
		{Key: plugkit.SlugKey, Value: c.Slug},
	}
}

// Builder returns a plugin builder preconfigured from this configuration.
// Production environments get a compiled container.
func (c *Config) Builder() *plugkit.Builder {
	return plugkit.NewBuilder(c.File).
		Compiled(c.Env == "production").
		Debug(c.Debug).
		BindAll(c.Bindings()...)
}

// Slug derives a lifecycle identifier from a plugin file path: the basename
// without extension, lowercased, with runs of non-alphanumeric characters
// collapsed to single hyphens.
func Slug(pluginFile string) string {
	base := filepath.Base(pluginFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	lastHyphen := true // trims leading separators
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
