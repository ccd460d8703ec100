package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	bind      = flag.String("bind", "0.0.0.0", "The interface to listen on")
	port      = flag.Int("port", 8060, "The TCP port to listen on")
	rootDir   = flag.String("root-dir", ".", "The directory to serve, defaults to the working directory")
	useHTTP2  = flag.Bool("use-http2", true, "Accept cleartext HTTP/2 (h2c) connections")
	proxyV2   = flag.Bool("proxy-protocol", false, "Require a PROXY protocol header on every connection (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")
	statusURL = flag.String("status-path", "", "The url path for a status page, e.g., /-/healthcheck")

	// HTTP rate limits
	rateLimitSourceIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitSourceIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	metricsAddress        = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	sentryDSN             = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment     = flag.String("sentry-environment", "", "The environment for sentry crash reporting")
	serverShutdownTimeout = flag.Duration("server-shutdown-timeout", 5*time.Second, "Time in-flight requests are given to finish on interrupt")
	logFormat             = flag.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose            = flag.Bool("log-verbose", false, "Verbose logging")

	maxConns     = flag.Int("max-conns", 0, "Limit on the number of concurrent connections, 0 for no limit")
	maxURILength = flag.Int("max-uri-length", 64*1024, "Limit the length of URI, 0 for unlimited.")

	// HTTP server timeouts
	serverReadTimeout       = flag.Duration("server-read-timeout", 5*time.Second, "ReadTimeout is the maximum duration for reading the entire request, including the body. A zero or negative value means there will be no timeout.")
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverWriteTimeout      = flag.Duration("server-write-timeout", 0, "WriteTimeout is the maximum duration before timing out writes of the response. A zero or negative value means there will be no timeout.")
	serverKeepAlive         = flag.Duration("server-keep-alive", 15*time.Second, "KeepAlive specifies the keep-alive period for network connections accepted by this listener. If zero, keep-alives are enabled if supported by the protocol and operating system. If negative, keep-alives are disabled.")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	header = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client, e.g. 'Cache-Control: no-cache'")

	flag.Parse()
}
