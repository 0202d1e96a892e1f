// Package zap writes cache logs to a *zap.Logger.
package zap

import (
	"time"

	retrycache "github.com/probablyarth/retrycache-go"
	"go.uber.org/zap"
)

var order = retrycache.FieldKeys()

var _ retrycache.Logger = ZapLogger{}

// ZapLogger adapts L to retrycache.Logger. Known fields become typed zap
// fields in a fixed order; anything else is appended with zap.Any.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f retrycache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z ZapLogger) Info(msg string, f retrycache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z ZapLogger) Warn(msg string, f retrycache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z ZapLogger) Error(msg string, f retrycache.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f retrycache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range order {
		v, ok := f[k]
		if !ok {
			continue
		}
		out = append(out, typed(k, v))
	}
	for k, v := range f {
		if !known(k) {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

func typed(k string, v any) zap.Field {
	switch v := v.(type) {
	case error:
		return zap.NamedError(k, v)
	case time.Duration:
		return zap.Duration(k, v)
	case int:
		return zap.Int(k, v)
	case string:
		return zap.String(k, v)
	default:
		return zap.Any(k, v)
	}
}

func known(k string) bool {
	for _, key := range order {
		if k == key {
			return true
		}
	}
	return false
}
