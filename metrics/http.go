package metrics

import (
	"net/http"
	"sync"

	labmetrics "gitlab.com/gitlab-org/labkit/metrics"
)

var (
	handlerFactory     labmetrics.HandlerFactory
	handlerFactoryOnce sync.Once
)

// InstrumentHandler records request counts, durations and sizes of handler.
// The underlying collectors are registered on first use.
func InstrumentHandler(handler http.Handler) http.Handler {
	handlerFactoryOnce.Do(func() {
		handlerFactory = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("coi_serve"))
	})

	return handlerFactory(handler)
}
