// Package proxy implements lazy placeholders for injected entries.
//
// A Proxy defers resolving an entry until its first use, resolves it exactly
// once, and hands the same instance to every later use. Go cannot intercept
// method calls on arbitrary types, so a placeholder that must satisfy an
// interface is produced by a Wrapper registered for that interface:
//
//	type lazyMailer struct{ p *proxy.Proxy }
//
//	func (l lazyMailer) Send(to, body string) error {
//	    m, err := proxy.As[Mailer](l.p)
//	    if err != nil {
//	        return err
//	    }
//	    return m.Send(to, body)
//	}
//
//	proxy.Register[Mailer](factory, func(p *proxy.Proxy) Mailer { return lazyMailer{p} })
//
// Fields typed *proxy.Proxy (or any) receive the bare Proxy.
package proxy
