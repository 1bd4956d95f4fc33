package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/inspect"
)

// Entries registered by the framework providers.
const (
	ConfigEntry  = "config"
	LoggerEntry  = "logger"
	InspectEntry = "inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the process configuration.
//
// Bound entries:
//   - "config"        → *config.Config
//   - "configuration" → alias of "config"
//   - "app.name", "app.env", "app.debug" → plain values
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	app.Set(ConfigEntry, p.Config)
	app.AddAlias("configuration", ConfigEntry)
	app.AddAlias(class.KeyOf[config.Config](), ConfigEntry)

	app.Set("app.name", p.Config.App.Name)
	app.Set("app.env", p.Config.App.Env)
	app.Set("app.debug", p.Config.App.Debug)
}

// ── LoggerServiceProvider ─────────────────────────────────────────────────────

// LoggerServiceProvider binds the logger and, once booted, logs every entry
// the container builds.
//
// Bound entries:
//   - "logger" → *zap.Logger (also reachable by type)
type LoggerServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggerServiceProvider) Register(app *container.Container) {
	app.Set(LoggerEntry, p.Logger)
	app.AddAlias(class.KeyOf[zap.Logger](), LoggerEntry)
}

func (p *LoggerServiceProvider) Boot(app *container.Container) {
	logger := p.Logger.Named("resolver")
	app.AfterResolving(func(entry string, instance any) {
		logger.Debug("entry built", zap.String("entry", entry), zap.String("type", class.TypeKey(instance)))
	})
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider defines the inspection handler. It is deferred: the
// class and definition are only registered when "inspect" is first requested.
//
// Bound entries:
//   - "inspect" → *inspect.Handler, built from "container" and "logger"
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) {
	class.MustRegister[*inspect.Handler](app.Classes(), inspect.New)
	app.AddDefinition(definition.NewBuilder(InspectEntry).
		BindTo(class.KeyOf[inspect.Handler]()).
		WithConstructor(container.SelfEntry, LoggerEntry).
		Definition())
}

func (p *InspectServiceProvider) Provides() []string { return []string{InspectEntry} }
func (p *InspectServiceProvider) IsDeferred() bool   { return true }
