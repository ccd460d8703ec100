package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"golang.org/x/sync/errgroup"

	cfg "gitlab.com/gitlab-org/coi-serve/internal/config"
	"gitlab.com/gitlab-org/coi-serve/internal/customheaders"
	"gitlab.com/gitlab-org/coi-serve/internal/handlers"
	"gitlab.com/gitlab-org/coi-serve/internal/healthcheck"
	"gitlab.com/gitlab-org/coi-serve/internal/logging"
	"gitlab.com/gitlab-org/coi-serve/internal/rejectmethods"
	"gitlab.com/gitlab-org/coi-serve/internal/serving"
	"gitlab.com/gitlab-org/coi-serve/internal/urilimiter"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs/local"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

type theApp struct {
	config          *cfg.Config
	root            vfs.Root
	listener        net.Listener
	metricsListener net.Listener
}

// newApp opens the served root and binds the listeners. Binding happens here
// so the caller can report the effective port before serving.
func newApp(ctx context.Context, config *cfg.Config) (*theApp, error) {
	root, err := vfs.Instrumented(&local.VFS{}).Root(ctx, config.General.RootDir)
	if err != nil {
		return nil, fmt.Errorf("could not open root directory %q: %w", config.General.RootDir, err)
	}

	a := &theApp{config: config, root: root}

	a.listener, err = net.Listen("tcp", config.ListenAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", config.ListenAddr(), err)
	}

	if config.General.MetricsAddress != "" {
		a.metricsListener, err = net.Listen("tcp", config.General.MetricsAddress)
		if err != nil {
			a.listener.Close()
			return nil, fmt.Errorf("failed to listen on metrics address %s: %w", config.General.MetricsAddress, err)
		}

		log.WithField("listener", a.metricsListener.Addr().String()).Debug("Set up metrics listener")
	}

	log.WithField("listener", a.listener.Addr().String()).Debug("Set up HTTP listener")

	return a, nil
}

// Port returns the TCP port the file server is bound to
func (a *theApp) Port() int {
	if addr, ok := a.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}

	return a.config.General.Port
}

func (a *theApp) buildHandler() (http.Handler, error) {
	var handler http.Handler = serving.New(a.root)

	handler = handlers.Cors(handler)
	handler = handlers.Ratelimiter(handler, &a.config.RateLimit)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)
	handler = rejectmethods.NewMiddleware(handler)
	handler = customheaders.NewMiddleware(handler, a.config.General.Headers)
	handler = handlers.Recovery(handler)
	handler = metrics.InstrumentHandler(handler)

	handler, err := logging.BasicAccessLogger(handler, a.config.Log.Format)
	if err != nil {
		return nil, err
	}

	handler = correlation.InjectCorrelationID(handler, correlation.WithPropagation())

	// outermost, so every response leaving the server is covered
	return customheaders.NewIsolationMiddleware(handler), nil
}

// Run serves until ctx is cancelled, then gives in-flight requests
// ShutdownTimeout to finish
func (a *theApp) Run(ctx context.Context) error {
	handler, err := a.buildHandler()
	if err != nil {
		return fmt.Errorf("could not build handler: %w", err)
	}

	servers := map[*http.Server]net.Listener{
		a.newServer(handler): a.wrapListener(a.listener),
	}

	if a.metricsListener != nil {
		servers[a.newMetricsServer()] = a.metricsListener
	}

	g, gctx := errgroup.WithContext(ctx)

	for server, listener := range servers {
		server, listener := server, listener
		g.Go(func() error {
			if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		return a.shutdown(servers)
	})

	return g.Wait()
}

func (a *theApp) shutdown(servers map[*http.Server]net.Listener) error {
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error

	for server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
			server.Close()
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		log.WithError(err).Warn("In-flight requests did not finish in time")
	}

	return nil
}

func (a *theApp) newMetricsServer() *http.Server {
	return &http.Server{
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
	}
}
