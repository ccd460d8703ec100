package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	cfg "gitlab.com/gitlab-org/coi-serve/internal/config"
	"gitlab.com/gitlab-org/coi-serve/internal/errortracking"
	"gitlab.com/gitlab-org/coi-serve/internal/logging"
	"gitlab.com/gitlab-org/coi-serve/internal/serving"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func printBanner(w io.Writer, port int) {
	color.New(color.FgGreen).Fprintf(w, "Serving on port %d with Cross-Origin Isolation...\n", port)
}

func appMain() {
	config, err := cfg.LoadConfig()
	if err != nil {
		fatal(err, "invalid configuration")
	}

	printVersion(config.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(config.Log.Format, config.Log.Verbose); err != nil {
		fatal(err, "Failed to initialize logging")
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("coi-serve")

	cfg.LogConfig(config)

	errortracking.Initialize(config.Sentry.DSN, config.Sentry.Environment, fmt.Sprintf("%s-%s", VERSION, REVISION))

	if err := serving.LoadMimeTypes(); err != nil {
		log.WithError(err).Warn("Loading extended MIME database failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, config)
	if err != nil {
		fatal(err, "could not start server")
	}

	printBanner(os.Stdout, a.Port())

	if err := a.Run(ctx); err != nil {
		fatal(err, "server stopped")
	}
}

func fatal(err error, message string) {
	errortracking.CaptureErrWithStackTrace(err)
	log.WithError(err).Fatal(message)
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
