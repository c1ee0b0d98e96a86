package orchestration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
)

func TestEmptyResponseSchedulesRestart(t *testing.T) {
	rig := newTestRig(t, WithReasoner(staticReasoner(commands.Command{Type: "google-search", UserInput: "go generics"})))
	rig.mount(t)

	rig.recognizer.result("jarvis google go generics", true)
	rig.o.awaitWorkers()

	if spoken := rig.synthesizer.spokenTexts(); len(spoken) != 0 {
		t.Fatalf("expected nothing spoken, got %v", spoken)
	}
	if opened := rig.opener.urls(); len(opened) != 1 || opened[0] != "https://www.google.com/search?q=go%20generics" {
		t.Fatalf("expected google search to open, got %v", opened)
	}

	pending := rig.scheduler.pending()
	if len(pending) != 1 {
		t.Fatalf("expected a restart timer, got %d", len(pending))
	}
	rig.scheduler.fire(pending[0])

	if state := rig.o.State(); state != StateListening {
		t.Fatalf("expected listening, got %v", state)
	}
}

func TestNilCommandIsReportedAsError(t *testing.T) {
	var reported []error
	rig := newTestRig(t, WithReasoner(ReasonerFunc(func(context.Context, string) (*commands.Command, error) {
		return nil, nil
	})))
	rig.mount(t, WithErrorCallback(func(err error) { reported = append(reported, err) }))

	rig.recognizer.result("jarvis hello", true)
	rig.o.awaitWorkers()

	if len(reported) != 1 || !errors.Is(reported[0], errEmptyCommand) {
		t.Fatalf("expected empty command error, got %v", reported)
	}
	if state := rig.o.State(); state != StateBackoffWait {
		t.Fatalf("expected backoff wait, got %v", state)
	}
}

func TestReasonerPanicIsRecovered(t *testing.T) {
	var reported atomic.Int32
	rig := newTestRig(t, WithReasoner(ReasonerFunc(func(context.Context, string) (*commands.Command, error) {
		panic("reasoner exploded")
	})))
	rig.mount(t, WithErrorCallback(func(error) { reported.Add(1) }))

	rig.recognizer.result("jarvis hello", true)
	rig.o.awaitWorkers()

	if got := reported.Load(); got != 1 {
		t.Fatalf("expected the panic to be reported once, got %d", got)
	}
}

func TestActionErrorDoesNotStopConversation(t *testing.T) {
	registry := commands.NewRegistry()
	var calls atomic.Int32
	registry.Register(commands.KindWeatherShow, func(context.Context, commands.Command) error {
		calls.Add(1)
		return errors.New("no browser")
	})
	rig := newTestRig(t,
		WithActions(registry),
		WithReasoner(staticReasoner(commands.Command{Type: "weather-show", Response: "Here is the weather"})),
	)
	rig.mount(t)

	rig.recognizer.result("jarvis weather", true)
	rig.o.awaitWorkers()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected action to run once, got %d", got)
	}
	rig.synthesizer.finish(0)
	if state := rig.o.State(); state != StateListening {
		t.Fatalf("expected listening, got %v", state)
	}
}

func TestMissingReasonerResumesListening(t *testing.T) {
	rig := newTestRig(t)
	rig.mount(t)

	rig.recognizer.result("jarvis hello", true)

	pending := rig.scheduler.pending()
	if len(pending) != 1 {
		t.Fatalf("expected a restart timer, got %d", len(pending))
	}
	rig.scheduler.fire(pending[0])
	if state := rig.o.State(); state != StateListening {
		t.Fatalf("expected listening, got %v", state)
	}
}

func TestCommandIDIsKeptWhenProvided(t *testing.T) {
	var seen []commands.Command
	rig := newTestRig(t, WithReasoner(staticReasoner(commands.Command{ID: "cmd-1", Type: "general", Response: "sure"})))
	rig.mount(t, WithCommandCallback(func(command commands.Command) { seen = append(seen, command) }))

	rig.recognizer.result("jarvis hi", true)
	rig.o.awaitWorkers()

	if len(seen) != 1 || seen[0].ID != "cmd-1" {
		t.Fatalf("expected command id to be kept, got %+v", seen)
	}
}
