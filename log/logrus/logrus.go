// Package logrus adapts a logrus entry to packd.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/packd"
)

var _ packd.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l, tagging every line with component=packd.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "packd")}
}

func (l Logger) Debug(msg string, f packd.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f packd.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f packd.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f packd.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
