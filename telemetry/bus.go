package telemetry

import "log/slog"

// LogBus is a Bus that writes events to the structured log. It is the
// default bus when no external one is wired in.
type LogBus struct {
	logger *slog.Logger
}

var _ Bus = (*LogBus)(nil)

// NewLogBus creates a LogBus. A nil logger falls back to slog.Default().
func NewLogBus(logger *slog.Logger) *LogBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBus{logger: logger}
}

// Publish implements Bus.
func (b *LogBus) Publish(kind EventKind, payload any) {
	b.logger.Debug("telemetry event", "kind", string(kind), "payload", payload)
}
