package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/coi-serve/internal/errortracking"
)

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	err := fmt.Errorf("panic while serving request: %s", fmt.Sprint(v...))

	errortracking.CaptureErrWithStackTrace(err)
	log.WithError(err).Error("recovered from panic")
}

// Recovery turns a panic in handler into a 500 response and keeps the
// server running
func Recovery(handler http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
	)(handler)
}
