package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/discovery"
	"github.com/km-arc/go-di/framework/inspect"
	"github.com/km-arc/go-di/framework/logger"
	"github.com/km-arc/go-di/framework/providers"
	"github.com/km-arc/go-di/framework/proxy"
)

const shutdownTimeout = 5 * time.Second

// Application is the top-level container. It embeds the Container and the
// ProviderRegistry so user code can call app.Get(), app.AddDefinition() and
// app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Proxies   *proxy.Factory
}

// New loads the configuration from envFiles, builds the logger and creates
// the container:
//
//   - class metadata registry and lazy proxy factory,
//   - struct-tag discovery when DI_DISCOVERY is on,
//   - the definitions file named by DI_CONFIG, when it exists,
//   - the config, logger and inspect providers.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	classes := class.NewRegistry()
	proxies := proxy.NewFactory()
	opts := []container.Option{
		container.WithLogger(log),
		container.WithClasses(classes),
		container.WithProxyFactory(proxies),
	}
	if cfg.Container.Discovery {
		opts = append(opts, container.WithDefinitionSource(discovery.NewSource(classes)))
	}
	c := container.New(opts...)

	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		Proxies:   proxies,
	}
	a.Register(&providers.ConfigServiceProvider{Config: cfg})
	a.Register(&providers.LoggerServiceProvider{Logger: log})
	a.Register(&providers.InspectServiceProvider{})

	if err := a.LoadDefinitions(cfg.Container.File); err != nil {
		return nil, err
	}
	log.Info("application created",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Bool("discovery", cfg.Container.Discovery))
	return a, nil
}

// LoadDefinitions applies a YAML or JSON definitions file. A missing file is
// not an error.
func (a *Application) LoadDefinitions(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		a.Logger().Debug("no definitions file", zap.String("path", path))
		return nil
	}
	if err := config.Apply(a.Container, path); err != nil {
		return err
	}
	a.Logger().Info("definitions loaded", zap.String("path", path))
	return nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.ConfigEntry)
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, providers.LoggerEntry)
}

// Inspector resolves the inspection handler, registering it on first use.
func (a *Application) Inspector() (*inspect.Handler, error) {
	return container.Resolve[*inspect.Handler](a.Container, providers.InspectEntry)
}

// Run boots the application (if needed) and, when INSPECT_ENABLED is set,
// serves the inspection handler on INSPECT_ADDR until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	log := a.Logger()
	if !cfg.Inspect.Enabled {
		log.Info("application booted", zap.Strings("entries", a.Entries()))
		return nil
	}

	handler, err := a.Inspector()
	if err != nil {
		return fmt.Errorf("app: inspect handler: %w", err)
	}
	srv := &http.Server{Addr: cfg.Inspect.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("inspection server listening", zap.String("addr", cfg.Inspect.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
