package config

import (
	"net"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config stores all the config options of the file server
type Config struct {
	General   General
	Server    Server
	RateLimit RateLimit
	Log       Log
	Sentry    Sentry
}

// General groups settings describing what is served and where
type General struct {
	Bind           string
	Port           int
	RootDir        string
	HTTP2          bool
	ProxyProtocol  bool
	MaxConns       int
	MaxURILength   int
	MetricsAddress string
	StatusPath     string
	ShowVersion    bool

	CustomHeaders []string
	// Headers holds CustomHeaders parsed by Validate
	Headers http.Header
}

// Server groups the http.Server and listener tuning knobs
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ListenKeepAlive   time.Duration
	ShutdownTimeout   time.Duration
}

// RateLimit config struct
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// ListenAddr returns the host:port the file server binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.General.Bind, strconv.Itoa(c.General.Port))
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			Bind:           *bind,
			Port:           *port,
			RootDir:        *rootDir,
			HTTP2:          *useHTTP2,
			ProxyProtocol:  *proxyV2,
			MaxConns:       *maxConns,
			MaxURILength:   *maxURILength,
			MetricsAddress: *metricsAddress,
			StatusPath:     *statusURL,
			ShowVersion:    *showVersion,
			CustomHeaders:  header.Split(),
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			ListenKeepAlive:   *serverKeepAlive,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
	}

	// -version short-circuits everything else
	if config.General.ShowVersion {
		return config, nil
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig writes the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"bind":                       config.General.Bind,
		"port":                       config.General.Port,
		"root-dir":                   config.General.RootDir,
		"use-http2":                  config.General.HTTP2,
		"proxy-protocol":             config.General.ProxyProtocol,
		"max-conns":                  config.General.MaxConns,
		"max-uri-length":             config.General.MaxURILength,
		"metrics-address":            config.General.MetricsAddress,
		"status-path":                config.General.StatusPath,
		"header":                     config.General.CustomHeaders,
		"log-format":                 config.Log.Format,
		"rate-limit-source-ip":       config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst": config.RateLimit.SourceIPBurst,
		"server-read-timeout":        config.Server.ReadTimeout,
		"server-read-header-timeout": config.Server.ReadHeaderTimeout,
		"server-write-timeout":       config.Server.WriteTimeout,
		"server-keep-alive":          config.Server.ListenKeepAlive,
		"server-shutdown-timeout":    config.Server.ShutdownTimeout,
	}).Debug("Start file server with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments or
// environment variables, and populates a Config object with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
