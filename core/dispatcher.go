package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var errEmptyCommand = errors.New("reasoner returned no command")

// Reasoner turns a transcript into a command. It is called off the
// coordinator queue and may block.
type Reasoner interface {
	Reason(ctx context.Context, transcript string) (*commands.Command, error)
}

type ReasonerFunc func(ctx context.Context, transcript string) (*commands.Command, error)

func (f ReasonerFunc) Reason(ctx context.Context, transcript string) (*commands.Command, error) {
	return f(ctx, transcript)
}

// commandDispatcher sends wake transcripts to the reasoner and carries out the
// command it answers with.
type commandDispatcher struct {
	o        *Orchestrator
	registry *commands.Registry

	// inFlight is set while a reasoner call is pending; listening is not
	// resumed until it returns.
	inFlight bool
}

// submit calls the reasoner in the background and posts the answer back to
// the coordinator queue.
func (d *commandDispatcher) submit(transcript string) {
	o := d.o
	if o.reasoner == nil {
		logger.Warn("no reasoner configured, dropping transcript")
		d.o.lifecycle.scheduleRestart("no_reasoner")
		return
	}

	d.inFlight = true
	ctx, span := tracer.Start(o.baseContext, "dispatch transcript")

	var command *commands.Command
	reason := panicSafeNamedWorker("reasoner", func(ctx context.Context) error {
		answer, err := o.reasoner.Reason(ctx, transcript)
		if err != nil {
			return err
		}
		if answer == nil {
			return errEmptyCommand
		}
		command = answer
		return nil
	})

	o.workers.Add(1)
	go func() {
		defer o.workers.Done()

		if err := reason(ctx); err != nil {
			recordedErr := fmt.Errorf("failed to reason about transcript: %w", err)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
			span.End()
			o.post(func() { d.fail(transcript, recordedErr) })
			return
		}
		span.End()
		o.post(func() { d.dispatch(ctx, *command) })
	}()
}

// dispatch speaks the response and then runs the action registered for the
// command's kind, if any.
func (d *commandDispatcher) dispatch(ctx context.Context, command commands.Command) {
	o := d.o
	d.inFlight = false
	if command.ID == "" {
		command.ID = uuid.NewString()
	}

	kind := command.Kind()
	ctx, span := tracer.Start(ctx, "dispatch command", trace.WithAttributes(
		attribute.String("command.id", command.ID),
		attribute.String("command.type", command.Type),
	))
	dispatchCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))

	o.emit(events.NewCommandReceived(command))
	o.speech.speak(command.Response)
	o.emit(events.NewUserTextUpdated(""))
	o.emit(events.NewAssistantTextUpdated(command.Response))

	if command.Response == "" {
		// nothing to speak, so no utterance end will resume listening
		o.lifecycle.scheduleRestart("empty_response")
	}

	action, ok := d.registry.Lookup(kind)
	if !ok {
		logger.Debug("no action for command", "type", command.Type, "kind", kind.String())
		span.End()
		return
	}

	run := panicSafeNamedWorker("command action", func(ctx context.Context) error {
		return action(ctx, command)
	})
	o.workers.Add(1)
	go func() {
		defer o.workers.Done()
		defer span.End()
		if err := run(ctx); err != nil {
			logger.Warn("command action failed", "type", command.Type, "error", err)
			recordedErr := fmt.Errorf("failed to run command action: %w", err)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	}()
}

// fail reports a reasoner error and resumes listening after the restart
// delay.
func (d *commandDispatcher) fail(transcript string, err error) {
	o := d.o
	d.inFlight = false
	logger.Warn("reasoner call failed", "error", err)

	o.emit(events.NewCommandFailed(transcript, err))
	o.emit(events.NewUserTextUpdated(""))
	o.lifecycle.scheduleRestart("reasoner_error")
}
