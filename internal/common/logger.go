package common

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger gates on a verbosity threshold the way a build tool's -v flag
// traditionally works, while delegating formatting and output to logrus.
type Logger struct {
	impl      *logrus.Logger
	fileName  string
	verbosity int
}

// NewLogger opens (or appends to) logFile and returns a Logger gating Info
// calls at the given verbosity. logFile == "" or "stderr" logs to stderr.
func NewLogger(logFile string, verbosity int) (*Logger, error) {
	impl := logrus.New()
	impl.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if logFile != "" && logFile != "stderr" {
		out, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
		impl.SetOutput(out)
	} else {
		impl.SetOutput(os.Stderr)
	}

	if verbosity < -1 || verbosity > 2 {
		return nil, ErrBadVerbosity
	}

	return &Logger{impl: impl, fileName: logFile, verbosity: verbosity}, nil
}

// Component returns a logger scoped to a named field, for subsystems that
// want a consistent prefix on every line they emit.
func (l *Logger) Component(name string) *logrus.Entry {
	return l.impl.WithField("component", name)
}

func (l *Logger) Info(verbosity int, args ...interface{}) {
	if l.verbosity >= verbosity {
		l.impl.Info(args...)
	}
}

func (l *Logger) Warn(args ...interface{}) {
	l.impl.Warn(args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.impl.Error(args...)
}

func (l *Logger) GetFileName() string {
	return l.fileName
}
