package system

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotCarrying  = errors.New("bounce: player is not carrying anything")
	ErrNoTransition = errors.New("bounce: no pickup transition to poll")
	ErrNoPlayer     = errors.New("bounce: entity has no player body")
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logLevel)
	return l
}

// Log returns the bounce mode logger.
func Log() *logrus.Entry {
	return logger.WithField("module", "bouncehelper")
}

// SetLogger replaces the logger. The level is left as the caller set it.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		return
	}
	logger = l
}

// misuse reports a programmer error: fatal in debug builds, logged and
// ignored otherwise.
func misuse(err error) {
	if err == nil {
		return
	}
	if debugBuild {
		panic(err)
	}
	Log().WithError(err).Debug("ignored misuse")
}
