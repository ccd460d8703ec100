package logging

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"
)

// Supported values for -log-format
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormat reports whether format can be passed to ConfigureLogging
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON || format == ""
}

// ConfigureLogging will initialize the system logger.
func ConfigureLogging(format string, verbose bool) error {
	var levelOption log.LoggerOption

	if !ValidFormat(format) {
		return fmt.Errorf("unknown log format %q", format)
	}

	if format == "" {
		format = FormatText
	}

	if verbose {
		levelOption = log.WithLogLevel("trace")
	} else {
		levelOption = log.WithLogLevel("info")
	}

	_, err := log.Initialize(
		log.WithFormatter(format),
		log.WithOutputName("stderr"),
		levelOption,
	)
	return err
}

// getAccessLogger will return the default logger, except when
// the log format is text, in which case a combined HTTP access
// logger will be configured.
func getAccessLogger(format string) (*logrus.Logger, error) {
	if format != FormatText && format != "" {
		return logrus.StandardLogger(), nil
	}

	accessLogger := log.New()
	_, err := log.Initialize(
		log.WithLogger(accessLogger),  // Configure `accessLogger`
		log.WithFormatter("combined"), // Use the combined formatter
	)
	if err != nil {
		return nil, err
	}

	return accessLogger, nil
}

// BasicAccessLogger configures the HTTP access logger middleware
func BasicAccessLogger(handler http.Handler, format string) (http.Handler, error) {
	accessLogger, err := getAccessLogger(format)
	if err != nil {
		return nil, err
	}

	return log.AccessLogger(handler,
		log.WithExtraFields(extraFields),
		log.WithAccessLogger(accessLogger),
		log.WithXFFAllowed(func(sip string) bool { return false }),
	), nil
}

func extraFields(r *http.Request) log.Fields {
	return log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"coi_host":       r.Host,
	}
}

// LogRequest will inject request host and path to the logged messages
func LogRequest(r *http.Request) *logrus.Entry {
	return log.WithFields(log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"host":           r.Host,
		"method":         r.Method,
		"path":           r.URL.Path,
	})
}
