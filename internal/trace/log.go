package trace

import "github.com/charmbracelet/log"

// LogSink writes events through a charmbracelet logger. Ordinary events are
// logged at debug level, warnings at warn level.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink writing to logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements Sink.
func (s *LogSink) Emit(e Event) {
	kv := []any{"state", e.State}
	if e.Pass > 0 {
		kv = append(kv, "pass", e.Pass)
	}
	if e.Count > 0 {
		kv = append(kv, "count", e.Count)
	}
	if e.Detail != "" {
		kv = append(kv, "detail", e.Detail)
	}

	if e.IsWarning() {
		s.logger.Warn(string(e.Kind), kv...)
		return
	}
	s.logger.Debug(string(e.Kind), kv...)
}
