// Package logrus writes cache logs to a *logrus.Entry.
package logrus

import (
	retrycache "github.com/probablyarth/retrycache-go"
	"github.com/sirupsen/logrus"
)

var _ retrycache.Logger = LogrusLogger{}

// LogrusLogger adapts E to retrycache.Logger. The producer failure goes to
// logrus' own error key so hooks and formatters treat it as an error.
type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f retrycache.Fields) { l.entry(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f retrycache.Fields)  { l.entry(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f retrycache.Fields)  { l.entry(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f retrycache.Fields) { l.entry(f).Error(msg) }

func (l LogrusLogger) entry(f retrycache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	data := make(logrus.Fields, len(f))
	for k, v := range f {
		if k == retrycache.FieldError {
			if err, ok := v.(error); ok {
				data[logrus.ErrorKey] = err
				continue
			}
		}
		data[k] = v
	}
	return l.E.WithFields(data)
}
