package proxy_test

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-di/framework/proxy"
)

type Mailer interface{ Send(to string) string }

type smtpMailer struct{}

func (smtpMailer) Send(to string) string { return "sent to " + to }

type lazyMailer struct{ p *proxy.Proxy }

func (l lazyMailer) Send(to string) string { return proxy.Must[Mailer](l.p).Send(to) }

// countingResolver resolves every entry to a fresh smtpMailer and counts calls.
type countingResolver struct {
	calls atomic.Int32
	err   error
}

func (r *countingResolver) Get(name string) (any, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return smtpMailer{}, nil
}

// panickingResolver panics on every Get and counts calls.
type panickingResolver struct{ calls atomic.Int32 }

func (r *panickingResolver) Get(name string) (any, error) {
	r.calls.Add(1)
	panic("constructor blew up")
}

// ── Proxy ─────────────────────────────────────────────────────────────────────

func TestProxy_ResolvesOnce(t *testing.T) {
	r := &countingResolver{}
	p := proxy.New("mailer", r)

	assert.Equal(t, "mailer", p.EntryName())
	assert.Equal(t, "proxy(mailer)", p.String())
	assert.False(t, p.Resolved())
	assert.Zero(t, r.calls.Load(), "creating a proxy resolves nothing")

	first, err := p.Instance()
	require.NoError(t, err)
	second, err := p.Instance()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, p.Resolved())
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestProxy_ConcurrentFirstUse(t *testing.T) {
	r := &countingResolver{}
	p := proxy.New("mailer", r)

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, err := p.Instance()
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestProxy_ErrorIsCached(t *testing.T) {
	boom := errors.New("boom")
	r := &countingResolver{err: boom}
	p := proxy.New("mailer", r)

	_, err := p.Instance()
	assert.ErrorIs(t, err, boom)
	_, err = p.Instance()
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestProxy_ResolverPanicBecomesError(t *testing.T) {
	r := &panickingResolver{}
	p := proxy.New("mailer", r)

	instance, err := p.Instance()
	require.Error(t, err)
	assert.Nil(t, instance)
	assert.Contains(t, err.Error(), "constructor blew up")

	instance, err = p.Instance()
	require.Error(t, err, "later calls see the same failure")
	assert.Nil(t, instance)
	assert.True(t, p.Resolved())
	assert.EqualValues(t, 1, r.calls.Load())

	_, err = proxy.As[Mailer](p)
	assert.Error(t, err)
}

func TestAs(t *testing.T) {
	p := proxy.New("mailer", &countingResolver{})

	m, err := proxy.As[Mailer](p)
	require.NoError(t, err)
	assert.Equal(t, "sent to bob", m.Send("bob"))

	_, err = proxy.As[*smtpMailer](p)
	assert.ErrorContains(t, err, "not *proxy_test.smtpMailer")

	assert.Panics(t, func() { proxy.Must[error](p) })
}

// ── Factory ───────────────────────────────────────────────────────────────────

func TestFactory_Create(t *testing.T) {
	f := proxy.NewFactory()
	proxy.Register[Mailer](f, func(p *proxy.Proxy) Mailer { return lazyMailer{p} })
	r := &countingResolver{}

	t.Run("registered wrapper", func(t *testing.T) {
		v, err := f.Create("mailer", reflect.TypeOf((*Mailer)(nil)).Elem(), r)
		require.NoError(t, err)
		m, ok := v.(Mailer)
		require.True(t, ok)
		assert.IsType(t, lazyMailer{}, m)
		assert.Equal(t, "sent to ann", m.Send("ann"))
	})

	t.Run("bare proxy for *Proxy and any", func(t *testing.T) {
		for _, target := range []reflect.Type{
			reflect.TypeOf(&proxy.Proxy{}),
			reflect.TypeOf((*any)(nil)).Elem(),
			nil,
		} {
			v, err := f.Create("mailer", target, r)
			require.NoError(t, err)
			assert.IsType(t, &proxy.Proxy{}, v)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := f.Create("mailer", reflect.TypeOf(smtpMailer{}), r)
		var unsupported *proxy.UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "mailer", unsupported.Entry)
	})
}

func TestFactory_CreateDefersResolution(t *testing.T) {
	f := proxy.NewFactory()
	proxy.Register[Mailer](f, func(p *proxy.Proxy) Mailer { return lazyMailer{p} })
	r := &countingResolver{}

	v, err := f.Create("mailer", reflect.TypeOf((*Mailer)(nil)).Elem(), r)
	require.NoError(t, err)
	assert.Zero(t, r.calls.Load())

	m := v.(Mailer)
	m.Send("a")
	m.Send("b")
	assert.EqualValues(t, 1, r.calls.Load())
}
