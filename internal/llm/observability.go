package llm

import (
	"github.com/alexanderramin/ulpiano/internal/logger"
)

// LLMCallEvent records metadata about a single completion.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	Cached    bool
	ErrorCode string
}

// Observer receives events about completions for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one structured log line per completion.
type LogObserver struct {
	log logger.Logger
}

// NewLogObserver creates an Observer that logs events to l.
func NewLogObserver(l logger.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	keyvals := []any{
		"task", event.Task,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"attempts", event.Attempts,
		"cached", event.Cached,
	}
	if !event.Success {
		o.log.Warn("llm call failed", append(keyvals, "error_code", event.ErrorCode)...)
		return
	}
	o.log.Info("llm call", keyvals...)
}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
