package main

import (
	"net"
	"net/http"

	proxyproto "github.com/pires/go-proxyproto"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"gitlab.com/gitlab-org/coi-serve/internal/netutil"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

func (a *theApp) newServer(handler http.Handler) *http.Server {
	if a.config.General.HTTP2 {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	return &http.Server{
		Handler:           handler,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}
}

func (a *theApp) wrapListener(l net.Listener) net.Listener {
	if a.config.General.MaxConns > 0 {
		limiter := netutil.NewLimiter(
			a.config.General.MaxConns,
			metrics.LimitListenerMaxConns,
			metrics.LimitListenerConcurrentConns,
			metrics.LimitListenerWaitingConns,
		)

		l = netutil.LimitListener(l, limiter)
	}

	l = netutil.KeepAliveListener(l, a.config.Server.ListenKeepAlive)

	if a.config.General.ProxyProtocol {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	return l
}
