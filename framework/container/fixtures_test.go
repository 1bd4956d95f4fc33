package container_test

import (
	"sync/atomic"
	"testing"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/proxy"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Dep struct{ ID int32 }

type Service struct {
	Dep *Dep
}

func NewService(dep *Dep) *Service { return &Service{Dep: dep} }

type Store interface{ Driver() string }

type MySQL struct{}

func (*MySQL) Driver() string { return "mysql" }

type Postgres struct{}

func (*Postgres) Driver() string { return "postgres" }

type Repository struct {
	Store Store
}

// Recorder notes the order in which it is wired.
type Recorder struct {
	Prop  string
	Calls []string
}

func NewRecorder(name string) *Recorder { return &Recorder{Calls: []string{"New(" + name + ")"}} }

func (r *Recorder) SetFirst(v string)  { r.Calls = append(r.Calls, "SetFirst("+v+") prop="+r.Prop) }
func (r *Recorder) SetSecond(v string) { r.Calls = append(r.Calls, "SetSecond("+v+") prop="+r.Prop) }
func (r *Recorder) Configure(a string, n int) {
	r.Calls = append(r.Calls, "Configure("+a+")")
}

// Tagged collects tags through variadic calls.
type Tagged struct{ Tags []string }

func NewTagged(tags ...string) *Tagged   { return &Tagged{Tags: tags} }
func (t *Tagged) AddTags(tags ...string) { t.Tags = append(t.Tags, tags...) }

type CycleA struct{ B *CycleB }
type CycleB struct{ A *CycleA }

// Buggy1 accepts an untyped dependency, so it cannot be injected by type.
type Buggy1 struct{ dep any }

func (b *Buggy1) SetDependency(dep any) { b.dep = dep }

// Buggy2 has a setter that takes nothing.
type Buggy2 struct{}

func (b *Buggy2) SetDependency() {}

// Buggy3 names an entry that does not exist.
type Buggy3 struct {
	Dependency *Dep
}

type Greeter interface{ Greet() string }

type EnglishGreeter struct{}

func (*EnglishGreeter) Greet() string { return "hello" }

type lazyGreeter struct{ p *proxy.Proxy }

func (g lazyGreeter) Greet() string { return proxy.Must[Greeter](g.p).Greet() }

type LazyConsumer struct {
	Dep     *proxy.Proxy
	Greeter Greeter
}

// ── helpers ───────────────────────────────────────────────────────────────────

// counting registers *Dep with a constructor that counts its calls.
func counting(t *testing.T, classes *class.Registry) *atomic.Int32 {
	t.Helper()
	var builds atomic.Int32
	class.MustRegister[*Dep](classes, func() *Dep {
		return &Dep{ID: builds.Add(1)}
	})
	return &builds
}

func newContainer(t *testing.T, opts ...container.Option) (*container.Container, *class.Registry) {
	t.Helper()
	classes := class.NewRegistry()
	opts = append([]container.Option{container.WithClasses(classes)}, opts...)
	return container.New(opts...), classes
}
