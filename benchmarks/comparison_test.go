// Package benchmarks provides comparative benchmarks between plugkit and
// other DI libraries.
//
// Run benchmarks with: go test -bench=. -benchmem ./benchmarks/
package benchmarks

import (
	"testing"

	"github.com/samber/do/v2"
	"go.uber.org/dig"

	"github.com/plugkit/plugkit"
)

// =============================================================================
// Shared Test Types
// =============================================================================

// Simple service with no dependencies
type Logger struct {
	Name string
}

func NewLogger() *Logger {
	return &Logger{Name: "logger"}
}

// Service with 1 dependency
type Config struct {
	Value string
}

func NewConfig() *Config {
	return &Config{Value: "config"}
}

// Service with 2 dependencies
type Database struct {
	Logger *Logger
	Config *Config
}

func NewDatabase(logger *Logger, config *Config) *Database {
	return &Database{Logger: logger, Config: config}
}

// Service with 3 dependencies
type Cache struct {
	Logger   *Logger
	Config   *Config
	Database *Database
}

func NewCache(logger *Logger, config *Config, db *Database) *Cache {
	return &Cache{Logger: logger, Config: config, Database: db}
}

func newPlugkitContainer() *plugkit.Container {
	c := plugkit.NewContainer(nil, nil)
	c.Set("logger", func(c *plugkit.Container) any { return NewLogger() })
	c.Set("config", func(c *plugkit.Container) any { return NewConfig() })
	c.Set("database", func(c *plugkit.Container) (any, error) {
		logger, err := c.Get("logger")
		if err != nil {
			return nil, err
		}
		config, err := c.Get("config")
		if err != nil {
			return nil, err
		}
		return NewDatabase(logger.(*Logger), config.(*Config)), nil
	})
	c.Set("cache", func(c *plugkit.Container) (any, error) {
		logger, err := c.Get("logger")
		if err != nil {
			return nil, err
		}
		config, err := c.Get("config")
		if err != nil {
			return nil, err
		}
		db, err := c.Get("database")
		if err != nil {
			return nil, err
		}
		return NewCache(logger.(*Logger), config.(*Config), db.(*Database)), nil
	})
	return c
}

// =============================================================================
// Container Build Benchmarks
// =============================================================================

func BenchmarkBuild_Plugkit(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = newPlugkitContainer()
	}
}

func BenchmarkBuild_Dig(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c := dig.New()
		c.Provide(NewLogger)
		c.Provide(NewConfig)
		c.Provide(NewDatabase)
		c.Provide(NewCache)
	}
}

func BenchmarkBuild_Do(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		injector := do.New()
		do.Provide(injector, func(i do.Injector) (*Logger, error) { return NewLogger(), nil })
		do.Provide(injector, func(i do.Injector) (*Config, error) { return NewConfig(), nil })
		do.Provide(injector, func(i do.Injector) (*Database, error) {
			logger := do.MustInvoke[*Logger](i)
			config := do.MustInvoke[*Config](i)
			return NewDatabase(logger, config), nil
		})
		do.Provide(injector, func(i do.Injector) (*Cache, error) {
			logger := do.MustInvoke[*Logger](i)
			config := do.MustInvoke[*Config](i)
			db := do.MustInvoke[*Database](i)
			return NewCache(logger, config, db), nil
		})
		injector.Shutdown()
	}
}

// =============================================================================
// Simple Resolution Benchmarks (No Dependencies)
// =============================================================================

func BenchmarkResolve_Simple_Plugkit(b *testing.B) {
	c := newPlugkitContainer()

	// Warm up
	if _, err := c.Get("logger"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("logger")
	}
}

func BenchmarkResolve_Simple_Plugkit_Compiled(b *testing.B) {
	c := plugkit.NewContainer([]plugkit.Binding{
		{Key: "logger", Value: NewLogger()},
	}, &plugkit.ContainerOptions{Compiled: true})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("logger")
	}
}

func BenchmarkResolve_Simple_Dig(b *testing.B) {
	c := dig.New()
	c.Provide(NewLogger)

	// Warm up
	c.Invoke(func(l *Logger) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Invoke(func(l *Logger) {})
	}
}

func BenchmarkResolve_Simple_Do(b *testing.B) {
	injector := do.New()
	do.Provide(injector, func(i do.Injector) (*Logger, error) { return NewLogger(), nil })

	// Warm up
	do.MustInvoke[*Logger](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*Logger](injector)
	}
}

// =============================================================================
// Chained Resolution Benchmarks (3 Dependencies)
// =============================================================================

func BenchmarkResolve_Chained_Plugkit(b *testing.B) {
	c := newPlugkitContainer()

	// Warm up
	if _, err := c.Get("cache"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("cache")
	}
}

func BenchmarkResolve_Chained_Dig(b *testing.B) {
	c := dig.New()
	c.Provide(NewLogger)
	c.Provide(NewConfig)
	c.Provide(NewDatabase)
	c.Provide(NewCache)

	// Warm up
	c.Invoke(func(cache *Cache) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Invoke(func(cache *Cache) {})
	}
}

func BenchmarkResolve_Chained_Do(b *testing.B) {
	injector := do.New()
	do.Provide(injector, func(i do.Injector) (*Logger, error) { return NewLogger(), nil })
	do.Provide(injector, func(i do.Injector) (*Config, error) { return NewConfig(), nil })
	do.Provide(injector, func(i do.Injector) (*Database, error) {
		logger := do.MustInvoke[*Logger](i)
		config := do.MustInvoke[*Config](i)
		return NewDatabase(logger, config), nil
	})
	do.Provide(injector, func(i do.Injector) (*Cache, error) {
		logger := do.MustInvoke[*Logger](i)
		config := do.MustInvoke[*Config](i)
		db := do.MustInvoke[*Database](i)
		return NewCache(logger, config, db), nil
	})

	// Warm up
	do.MustInvoke[*Cache](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*Cache](injector)
	}
}

// =============================================================================
// Transient Construction Benchmarks
// =============================================================================

func BenchmarkMake_Plugkit(b *testing.B) {
	c := newPlugkitContainer()

	// Warm up the singleton graph Make draws from
	if _, err := c.Get("database"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Make((*Cache)(nil))
	}
}

// =============================================================================
// Function Invocation Benchmarks
// =============================================================================

func BenchmarkCall_Plugkit(b *testing.B) {
	c := newPlugkitContainer()
	fn := func(cache *Cache) string { return cache.Logger.Name }

	// Warm up
	if _, err := c.Call(fn); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Call(fn)
	}
}

func BenchmarkCall_Dig(b *testing.B) {
	c := dig.New()
	c.Provide(NewLogger)
	c.Provide(NewConfig)
	c.Provide(NewDatabase)
	c.Provide(NewCache)
	fn := func(cache *Cache) {}

	// Warm up
	c.Invoke(fn)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Invoke(fn)
	}
}
