package orchestration

import (
	"errors"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// recognitionLifecycle decides when the recognition session may run and
// restarts it after it ends on its own. All methods run on the coordinator
// queue.
type recognitionLifecycle struct {
	o       *Orchestrator
	restart timerSlot
}

// requestStart starts a session unless one is running, being stopped for a
// dispatch, or the assistant is speaking. Nothing starts while a reasoner call
// is pending.
func (l *recognitionLifecycle) requestStart() {
	o := l.o
	switch o.currentState() {
	case StateListening, StateStoppingForDispatch, StateSpeaking, StateClosed:
		return
	}
	if o.recognizer == nil || o.dispatcher.inFlight {
		return
	}

	o.cancelTimer(&l.restart)

	err := o.recognizer.Start(o.baseContext,
		speechtotext.WithStartCallback(func() {
			o.post(func() { o.emit(events.NewListeningChanged(true)) })
		}),
		speechtotext.WithEndCallback(func() {
			o.post(l.onSessionEnded)
		}),
		speechtotext.WithErrorCallback(func(kind speechtotext.ErrorKind) {
			o.post(func() { l.onSessionError(kind) })
		}),
		speechtotext.WithResultCallback(func(transcript string, isFinal bool) {
			o.post(func() { o.handleResult(transcript, isFinal) })
		}),
		speechtotext.WithLang(o.recognitionLang),
	)
	if err != nil && !errors.Is(err, speechtotext.ErrAlreadyActive) {
		logger.Warn("failed to start recognition", "error", err)
		o.transition(StateIdle)
		return
	}

	o.transition(StateListening)
}

func (l *recognitionLifecycle) requestStop() {
	if l.o.recognizer == nil {
		return
	}
	if err := l.o.recognizer.Stop(); err != nil {
		logger.Warn("failed to stop recognition", "error", err)
	}
}

func (l *recognitionLifecycle) onSessionEnded() {
	o := l.o
	o.emit(events.NewListeningChanged(false))

	switch o.currentState() {
	case StateStoppingForDispatch:
		o.transition(StateIdle)
	case StateListening, StateIdle:
		l.scheduleRestart("ended")
	}
}

func (l *recognitionLifecycle) onSessionError(kind speechtotext.ErrorKind) {
	o := l.o
	logger.Warn("speech recognition error", "kind", kind, "state", o.currentState().String())
	o.emit(events.NewRecognitionFailed(string(kind)))
	o.emit(events.NewListeningChanged(false))

	switch o.currentState() {
	case StateListening, StateIdle:
		l.scheduleRestart(string(kind))
	}
}

// scheduleRestart moves to BackoffWait and starts the restart timer. While in
// BackoffWait further ends and errors are ignored, so one episode schedules
// one restart.
func (l *recognitionLifecycle) scheduleRestart(reason string) {
	o := l.o
	if !o.transition(StateBackoffWait) {
		return
	}

	restartCounter.Add(o.baseContext, 1, metric.WithAttributes(attribute.String("reason", reason)))
	o.schedule(&l.restart, o.restartDelay, func() {
		if o.currentState() != StateBackoffWait {
			return
		}
		l.requestStart()
	})
}

func (l *recognitionLifecycle) cancelRestart() {
	l.o.cancelTimer(&l.restart)
}
