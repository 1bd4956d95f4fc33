package definition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-di/framework/definition"
)

// ── Builder ───────────────────────────────────────────────────────────────────

func TestBuilder_Defaults(t *testing.T) {
	def := definition.NewBuilder("example.Clock").Definition()

	assert.Equal(t, "example.Clock", def.EntryName())
	assert.Equal(t, "example.Clock", def.ClassName(), "class defaults to the entry name")
	assert.Equal(t, definition.Singleton, def.Scope())
	assert.Nil(t, def.ConstructorInjection())
	assert.Empty(t, def.MethodInjections())
	assert.Empty(t, def.PropertyInjections())
}

func TestBuilder_ReReadReflectsConfigurationSoFar(t *testing.T) {
	b := definition.NewBuilder("Service").BindTo("example.Service")
	first := b.Definition()

	b.WithScope(definition.Prototype).WithProperty("Clock", "clock")
	second := b.Definition()

	b.WithMethod("SetLogger", "logger")
	third := b.Definition()
	again := b.Definition()

	assert.Equal(t, definition.Singleton, first.Scope())
	assert.Empty(t, first.PropertyInjections())

	assert.Equal(t, definition.Prototype, second.Scope())
	assert.Len(t, second.PropertyInjections(), 1)
	assert.Empty(t, second.MethodInjections())

	assert.Len(t, third.MethodInjections(), 1)
	assert.Equal(t, third, again, "finalizing twice has no side effects")
	assert.NotSame(t, third, again)
}

func TestBuilder_ConstructorLastWriteWins(t *testing.T) {
	def := definition.NewBuilder("Service").
		WithConstructor("a", "b").
		WithConstructor("c").
		Definition()

	ctor := def.ConstructorInjection()
	require.NotNil(t, ctor)
	assert.True(t, ctor.IsConstructor())
	assert.Equal(t, []definition.ParameterInjection{definition.NewParameterInjection(0, "c")}, ctor.Parameters())
}

func TestBuilder_InjectionsKeepOrder(t *testing.T) {
	def := definition.NewBuilder("Service").
		WithMethod("Init").
		WithSetter("SetClock", "clock").
		WithMethod("Configure", "a", "").
		WithProperty("Logger", "logger").
		WithLazyProperty("Mailer", "mailer").
		Definition()

	methods := def.MethodInjections()
	require.Len(t, methods, 3)
	assert.Equal(t, "Init", methods[0].MethodName())
	assert.Empty(t, methods[0].Parameters())
	assert.Equal(t, "SetClock", methods[1].MethodName())
	assert.True(t, methods[1].IsSetter())
	assert.Equal(t, "Configure", methods[2].MethodName())

	params := methods[2].Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, 1, params[1].Index())
	assert.Equal(t, "", params[1].EntryName())

	props := def.PropertyInjections()
	require.Len(t, props, 2)
	assert.False(t, props[0].IsLazy())
	assert.True(t, props[1].IsLazy())
	assert.Equal(t, "mailer", props[1].EntryName())

	assert.Equal(t, []string{"clock", "a", "logger", "mailer"}, def.Dependencies())
}

// ── ClassDefinition ───────────────────────────────────────────────────────────

func TestClassDefinition_AccessorsReturnCopies(t *testing.T) {
	def := definition.NewClassDefinition("Service")
	def.AddMethodInjection(definition.NewMethodInjection("Init"))

	methods := def.MethodInjections()
	methods[0] = definition.NewMethodInjection("Other")
	assert.Equal(t, "Init", def.MethodInjections()[0].MethodName())

	m := definition.NewMethodInjection("Configure", definition.NewParameterInjection(0, "a"))
	params := m.Parameters()
	params[0] = definition.NewParameterInjection(0, "changed")
	assert.Equal(t, "a", m.Parameters()[0].EntryName())
}

func TestClassDefinition_CloneIsIndependent(t *testing.T) {
	def := definition.NewClassDefinition("Service")
	def.AddPropertyInjection(definition.NewPropertyInjection("Clock", "clock", false))

	cp := def.Clone()
	cp.AddPropertyInjection(definition.NewPropertyInjection("Logger", "logger", false))
	cp.SetScope(definition.Prototype)
	cp.SetClassName("example.Other")

	assert.Len(t, def.PropertyInjections(), 1)
	assert.Equal(t, definition.Singleton, def.Scope())
	assert.Equal(t, "Service", def.ClassName())
}

// ── Injection equality ────────────────────────────────────────────────────────

func TestMethodInjection_Equal(t *testing.T) {
	a := definition.NewMethodInjection("Set", definition.NewParameterInjection(0, "x"))
	b := definition.NewMethodInjection("Set", definition.NewParameterInjection(0, "x"))
	setter := definition.NewSetterInjection("Set", "x")
	var none *definition.MethodInjection

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(setter))
	assert.False(t, a.Equal(definition.NewMethodInjection("Set", definition.NewParameterInjection(0, "y"))))
	assert.False(t, a.Equal(none))
	assert.True(t, none.Equal(nil))
}

func TestPropertyInjection_Equal(t *testing.T) {
	a := definition.NewPropertyInjection("Clock", "clock", true)
	assert.True(t, a.Equal(definition.NewPropertyInjection("Clock", "clock", true)))
	assert.False(t, a.Equal(definition.NewPropertyInjection("Clock", "clock", false)))
	assert.False(t, a.Equal(nil))
}

// ── Scope ─────────────────────────────────────────────────────────────────────

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    definition.Scope
		wantErr bool
	}{
		{"", definition.Singleton, false},
		{"singleton", definition.Singleton, false},
		{" Prototype ", definition.Prototype, false},
		{"request", definition.Singleton, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := definition.ParseScope(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScope_Text(t *testing.T) {
	text, err := definition.Prototype.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "prototype", string(text))

	var s definition.Scope
	require.NoError(t, s.UnmarshalText([]byte("prototype")))
	assert.Equal(t, definition.Prototype, s)
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "scope(7)", definition.Scope(7).String())
}
