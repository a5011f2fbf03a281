// Package zap adapts a zap logger to packd.Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/packd"
)

var _ packd.Logger = Logger{}

type Logger struct{ L *zap.Logger }

func (z Logger) Debug(msg string, f packd.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f packd.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f packd.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f packd.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f packd.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
