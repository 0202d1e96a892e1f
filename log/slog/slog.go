// Package slog writes cache logs to a *slog.Logger.
package slog

import (
	"context"
	stdslog "log/slog"
	"time"

	retrycache "github.com/probablyarth/retrycache-go"
)

var order = retrycache.FieldKeys()

var _ retrycache.Logger = Logger{}

// Logger adapts L to retrycache.Logger. Known fields are emitted first, in
// a fixed order, as typed attributes.
type Logger struct{ L *stdslog.Logger }

func (s Logger) Debug(msg string, f retrycache.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f retrycache.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f retrycache.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f retrycache.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f retrycache.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	s.L.LogAttrs(ctx, level, msg, attrs(f)...)
}

func attrs(f retrycache.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	seen := 0
	for _, k := range order {
		if v, ok := f[k]; ok {
			out = append(out, attr(k, v))
			seen++
		}
	}
	if seen == len(f) {
		return out
	}
	for k, v := range f {
		if !isKnown(k) {
			out = append(out, stdslog.Any(k, v))
		}
	}
	return out
}

func attr(k string, v any) stdslog.Attr {
	switch v := v.(type) {
	case int:
		return stdslog.Int(k, v)
	case string:
		return stdslog.String(k, v)
	case time.Duration:
		return stdslog.Duration(k, v)
	case error:
		return stdslog.String(k, v.Error())
	default:
		return stdslog.Any(k, v)
	}
}

func isKnown(k string) bool {
	for _, key := range order {
		if k == key {
			return true
		}
	}
	return false
}
