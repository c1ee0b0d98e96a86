package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	restartCounter  = mustInt64Counter("recognition.restarts", "Recognition restarts scheduled after an unsolicited session end or error")
	wakeCounter     = mustInt64Counter("wake.matches", "Final transcripts that contained the wake phrase")
	dispatchCounter = mustInt64Counter("commands.dispatched", "Commands dispatched after a reasoner answer")
)

func mustInt64Counter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Warn("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}
