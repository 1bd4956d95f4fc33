package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/inspect"
	"github.com/km-arc/go-di/framework/providers"
)

func newRegistry(t *testing.T) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&providers.ConfigServiceProvider{Config: &config.Config{
		App: config.AppConfig{Name: "billing", Env: "testing"},
	}})
	reg.Register(&providers.LoggerServiceProvider{Logger: zap.NewNop()})
	reg.Register(&providers.InspectServiceProvider{})
	return c, reg
}

func TestConfigServiceProvider(t *testing.T) {
	c, _ := newRegistry(t)

	cfg := container.MustResolve[*config.Config](c, "configuration")
	assert.Equal(t, "billing", cfg.App.Name)
	assert.Same(t, cfg, c.Make(class.KeyOf[config.Config]()))
	assert.Equal(t, "testing", c.Make("app.env"))
	assert.Equal(t, false, c.Make("app.debug"))
}

func TestLoggerServiceProvider(t *testing.T) {
	c, _ := newRegistry(t)
	logger := container.MustResolve[*zap.Logger](c, providers.LoggerEntry)
	assert.Same(t, logger, c.Make(class.KeyOf[zap.Logger]()))
}

func TestInspectServiceProvider_Deferred(t *testing.T) {
	c, reg := newRegistry(t)
	reg.Boot()

	_, registered := c.Classes().Lookup(class.KeyOf[inspect.Handler]())
	assert.False(t, registered, "class metadata is only registered on first use")

	h, err := container.Resolve[*inspect.Handler](c, providers.InspectEntry)
	require.NoError(t, err)
	assert.Same(t, h, c.Make(providers.InspectEntry))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
