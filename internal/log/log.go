// Package log provides the process-wide logger: a small interface over
// logrus so packages never import logrus directly.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"firestige.xyz/netproc/internal/config"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger = FromLogrus(defaultLogrus())
)

// GetLogger returns the current logger. Before Init it logs at info level
// to stderr.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init replaces the process logger according to cfg, logging to stderr
// and the optional rotating file.
func Init(cfg config.LogConfig) error {
	return InitTo(cfg, os.Stderr)
}

// InitTo is Init with a different console writer. The live view passes
// io.Discard so log lines do not tear the screen.
func InitTo(cfg config.LogConfig, console io.Writer) error {
	l, err := newLogrus(cfg, NewMultiWriter().Add(console))
	if err != nil {
		return err
	}
	SetLogger(FromLogrus(l))
	return nil
}

// SetLogger replaces the process logger.
func SetLogger(l Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func defaultLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&formatter{
		pattern: defaultPattern,
		time:    defaultTime,
	})
	return l
}
