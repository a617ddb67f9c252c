// Package obslog centralizes the core's structured logging. Each driver
// gets its own tagged entry via For, matching the teacher's pattern of a
// single Verbose flag raising trace detail for the whole run.
package obslog

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = newDefaultLogger()
)

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetVerbose raises or lowers the process-wide log level, mirroring the
// teacher's Solver.Verbose flag: false by default, Debug when set.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// For returns a component-tagged entry. component is typically the driver
// name: "engine", "propagate", "separate", "heuristic", "presolve", "param".
func For(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	return logger.WithField("component", component)
}

// SetOutput redirects the underlying logger, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}
