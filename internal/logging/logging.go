// Package logging builds the process-wide zap logger.
package logging

import (
	"io"
	"log"

	"go.uber.org/zap"
)

// New returns a JSON production logger when env is "production" and a
// human-readable development logger otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// StdLogger adapts l for libraries that want a *log.Logger, such as the
// recovery middleware and http.Server.ErrorLog.
func StdLogger(l *zap.Logger) *log.Logger {
	return zap.NewStdLog(l)
}

// AccessWriter turns each line written by an access-log middleware into
// one info entry on l.
func AccessWriter(l *zap.Logger) io.Writer {
	return zap.NewStdLog(l).Writer()
}
