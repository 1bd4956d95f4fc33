package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/app"
	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/proxy"
)

// ── demo domain ───────────────────────────────────────────────────────────────

type Clock interface{ Now() time.Time }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Notifier interface{ Notify(msg string) }

// LogNotifier is expensive to set up in real life, so it is injected lazily.
type LogNotifier struct {
	Logger *zap.Logger `inject:"logger"`
}

func (n *LogNotifier) Notify(msg string) { n.Logger.Info("notification", zap.String("msg", msg)) }

type lazyNotifier struct{ p *proxy.Proxy }

func (l lazyNotifier) Notify(msg string) { proxy.Must[Notifier](l.p).Notify(msg) }

// Greeter is wired from di.yaml: constructor, setter and lazy property.
type Greeter struct {
	Notifier Notifier

	clock    Clock
	greeting string
	name     string
}

func NewGreeter(clock Clock, greeting string) *Greeter {
	return &Greeter{clock: clock, greeting: greeting}
}

func (g *Greeter) SetName(name string) { g.name = name }

func (g *Greeter) Greet() string {
	msg := fmt.Sprintf("%s, %s! It is %s.", g.greeting, g.name, g.clock.Now().Format(time.Kitchen))
	g.Notifier.Notify(msg)
	return msg
}

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	classes := application.Classes()
	class.MustRegister[SystemClock](classes)
	class.MustRegister[*LogNotifier](classes)
	class.MustRegister[*Greeter](classes, NewGreeter)
	proxy.Register[Notifier](application.Proxies, func(p *proxy.Proxy) Notifier { return lazyNotifier{p} })

	application.Boot()

	greeter, err := container.Resolve[*Greeter](application.Container, "greeter")
	if err != nil {
		application.Logger().Fatal("cannot resolve greeter", zap.Error(err))
	}
	fmt.Println(greeter.Greet())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("application stopped", zap.Error(err))
	}
}
