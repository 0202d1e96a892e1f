package retrycache

// Fields carries the structured context of a log line. The cache only uses
// the Field* keys.
type Fields map[string]any

// Keys the cache puts in Fields.
const (
	FieldCache   = "cache"   // string, the name set with WithName
	FieldAttempt = "attempt" // int, producer invocation number
	FieldRetries = "retries" // int, failed attempts so far
	FieldDelay   = "delay"   // time.Duration, throttling wait
	FieldError   = "error"   // error, the producer failure
)

// FieldKeys returns the Field* keys in the order adapters should emit them.
func FieldKeys() []string {
	return []string{FieldCache, FieldAttempt, FieldRetries, FieldDelay, FieldError}
}

// Logger is the leveled logger the cache writes to. Adapters for zap,
// logrus and slog live under log/.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything. It is the default.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
