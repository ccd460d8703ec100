package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/coi-serve/internal/customheaders"
	"gitlab.com/gitlab-org/coi-serve/internal/logging"
)

var (
	ErrInvalidPort             = errors.New("port must be between 1 and 65535")
	ErrRootNotDirectory        = errors.New("root-dir must be an existing directory")
	ErrInvalidLogFormat        = errors.New("log-format must be either 'text' or 'json'")
	ErrNegativeMaxConns        = errors.New("max-conns must not be negative")
	ErrNegativeMaxURILength    = errors.New("max-uri-length must not be negative")
	ErrNegativeRateLimit       = errors.New("rate-limit-source-ip must not be negative")
	ErrInvalidRateLimitBurst   = errors.New("rate-limit-source-ip-burst must be greater than 0 when rate limiting is enabled")
	ErrInvalidHeader           = errors.New("header must be in the 'Key: Value' form")
	ErrIsolationHeaderOverride = errors.New("header must not override a cross-origin isolation header")
	ErrNegativeShutdownTimeout = errors.New("server-shutdown-timeout must not be negative")
)

// Validate checks every setting and returns all the problems found at once
func Validate(config *Config) error {
	var result *multierror.Error

	if config.General.Port < 1 || config.General.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrInvalidPort, config.General.Port))
	}

	if err := validateRootDir(config.General.RootDir); err != nil {
		result = multierror.Append(result, err)
	}

	if !logging.ValidFormat(config.Log.Format) {
		result = multierror.Append(result, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, config.Log.Format))
	}

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}

	if config.General.MaxURILength < 0 {
		result = multierror.Append(result, ErrNegativeMaxURILength)
	}

	if config.Server.ShutdownTimeout < 0 {
		result = multierror.Append(result, ErrNegativeShutdownTimeout)
	}

	result = multierror.Append(result, validateRateLimit(config.RateLimit)...)

	if err := validateHeaders(config); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func validateRootDir(rootDir string) error {
	fi, err := os.Stat(rootDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootNotDirectory, err)
	}

	if !fi.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", ErrRootNotDirectory, rootDir)
	}

	return nil
}

func validateRateLimit(rl RateLimit) []error {
	var errs []error

	if rl.SourceIPLimitPerSecond < 0 {
		errs = append(errs, ErrNegativeRateLimit)
	}

	if rl.SourceIPLimitPerSecond > 0 && rl.SourceIPBurst <= 0 {
		errs = append(errs, ErrInvalidRateLimitBurst)
	}

	return errs
}

// validateHeaders parses the custom headers into config.General.Headers
func validateHeaders(config *Config) error {
	headers, err := customheaders.ParseHeaderString(config.General.CustomHeaders)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	for key := range headers {
		if customheaders.IsIsolationHeader(key) {
			return fmt.Errorf("%w: %s", ErrIsolationHeaderOverride, key)
		}
	}

	config.General.Headers = headers

	return nil
}
