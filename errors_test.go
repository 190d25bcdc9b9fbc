package plugkit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugkit/plugkit"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("underlying")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found without cause",
			err:  plugkit.NotFoundError{Key: "db.conn"},
			want: `service not found: "db.conn"`,
		},
		{
			name: "not found with cause",
			err:  plugkit.NotFoundError{Key: "db.conn", Cause: cause},
			want: `service not found: "db.conn": underlying`,
		},
		{
			name: "resolution",
			err:  plugkit.ResolutionError{Key: "db.conn", Cause: cause},
			want: `resolution of "db.conn" failed: underlying`,
		},
		{
			name: "circular dependency",
			err:  plugkit.CircularDependencyError{Key: "a", Chain: []string{"a", "b", "a"}},
			want: `circular dependency detected for "a": a -> b -> a`,
		},
		{
			name: "provider registration",
			err:  plugkit.ProviderRegistrationError{Provider: "*shop.CacheProvider", Cause: cause},
			want: "provider *shop.CacheProvider: register failed: underlying",
		},
		{
			name: "provider boot",
			err:  plugkit.ProviderBootError{Provider: "*shop.CacheProvider", Cause: cause},
			want: "provider *shop.CacheProvider: boot failed: underlying",
		},
		{
			name: "plugin",
			err:  plugkit.PluginError{Path: "/srv/plugins/shop/shop.go", Op: "get", Cause: cause},
			want: "get in plugin container (/srv/plugins/shop/shop.go): underlying",
		},
		{
			name: "module",
			err:  plugkit.ModuleError{Module: "storage", Cause: cause},
			want: `module "storage": underlying`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	t.Run("typed errors expose their cause", func(t *testing.T) {
		cause := errors.New("underlying")

		assert.ErrorIs(t, plugkit.NotFoundError{Key: "k", Cause: cause}, cause)
		assert.ErrorIs(t, plugkit.ResolutionError{Key: "k", Cause: cause}, cause)
		assert.ErrorIs(t, plugkit.ProviderRegistrationError{Provider: "p", Cause: cause}, cause)
		assert.ErrorIs(t, plugkit.ProviderBootError{Provider: "p", Cause: cause}, cause)
		assert.ErrorIs(t, plugkit.PluginError{Path: "f", Op: "get", Cause: cause}, cause)
		assert.ErrorIs(t, plugkit.ModuleError{Module: "m", Cause: cause}, cause)
	})

	t.Run("kinds survive nested wrapping", func(t *testing.T) {
		err := plugkit.PluginError{
			Path: "shop.go",
			Op:   "get",
			Cause: plugkit.ResolutionError{
				Key:   "a",
				Cause: plugkit.CircularDependencyError{Key: "a", Chain: []string{"a", "a"}},
			},
		}

		assert.True(t, plugkit.IsResolution(err))
		assert.False(t, plugkit.IsNotFound(err))

		var circ plugkit.CircularDependencyError
		require.ErrorAs(t, err, &circ)
		assert.Equal(t, []string{"a", "a"}, circ.Chain)
	})

	t.Run("kinds survive fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", plugkit.NotFoundError{Key: "session"})

		assert.True(t, plugkit.IsNotFound(err))

		var nf plugkit.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "session", nf.Key)
	})

	t.Run("sentinels are detectable behind typed errors", func(t *testing.T) {
		err := plugkit.NotFoundError{Key: "svc", Cause: plugkit.ErrTemplateNil}
		assert.ErrorIs(t, err, plugkit.ErrTemplateNil)

		err2 := plugkit.ProviderRegistrationError{Provider: "<nil>", Cause: plugkit.ErrProviderNil}
		assert.ErrorIs(t, err2, plugkit.ErrProviderNil)
	})
}
