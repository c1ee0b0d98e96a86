package orchestration

import (
	"context"
	"testing"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
)

func TestWakeWordFilterMatches(t *testing.T) {
	tests := []struct {
		phrase     string
		transcript string
		want       bool
	}{
		{phrase: "buddy", transcript: "Hey Buddy what time is it", want: true},
		{phrase: "Buddy", transcript: "BUDDY", want: true},
		{phrase: "buddy", transcript: "nobody home", want: false},
		{phrase: "hey jarvis", transcript: "ok hey   jarvis", want: false},
		{phrase: "", transcript: "anything at all", want: false},
		{phrase: "   ", transcript: "   ", want: false},
		{phrase: "jarvis", transcript: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.phrase+"/"+tt.transcript, func(t *testing.T) {
			if got := NewWakeWordFilter(tt.phrase).Matches(tt.transcript); got != tt.want {
				t.Fatalf("expected Matches(%q) with phrase %q to be %v, got %v", tt.transcript, tt.phrase, tt.want, got)
			}
		})
	}
}

func TestInterimResultsDoNotWake(t *testing.T) {
	rig := newTestRig(t, WithReasoner(staticReasoner(commands.Command{Type: "general", Response: "hi"})))
	rig.mount(t)

	rig.recognizer.result("jarvis are you there", false)

	if _, stops := rig.recognizer.counts(); stops != 0 {
		t.Fatalf("expected interim result to be ignored, got %d stops", stops)
	}
	if state := rig.o.State(); state != StateListening {
		t.Fatalf("expected listening, got %v", state)
	}
}

func TestNonMatchingFinalResultKeepsListening(t *testing.T) {
	rig := newTestRig(t)
	rig.mount(t)

	rig.recognizer.result("what a lovely day", true)

	if _, stops := rig.recognizer.counts(); stops != 0 {
		t.Fatalf("expected recognition to keep running, got %d stops", stops)
	}
	if snapshot := rig.o.Snapshot(); snapshot.UserText != "" {
		t.Fatalf("expected no user text, got %q", snapshot.UserText)
	}
}

func TestEmptyWakePhraseNeverDispatches(t *testing.T) {
	var reasoned int
	rig := newTestRig(t, WithAssistantName(""), WithReasoner(ReasonerFunc(func(ctx context.Context, transcript string) (*commands.Command, error) {
		reasoned++
		return &commands.Command{Type: "general"}, nil
	})))
	rig.mount(t)

	rig.recognizer.result("", true)
	rig.recognizer.result("jarvis", true)
	rig.o.awaitWorkers()

	if reasoned != 0 {
		t.Fatalf("expected no reasoner calls, got %d", reasoned)
	}
}

func TestWakeMatchWhileNotListeningIsIgnored(t *testing.T) {
	rig := newTestRig(t, WithReasoner(staticReasoner(commands.Command{Type: "general", Response: "hi"})))
	rig.mount(t)
	rig.o.Speak("one moment")

	rig.recognizer.result("jarvis stop", true)
	rig.o.awaitWorkers()

	if spoken := rig.synthesizer.spokenTexts(); len(spoken) != 1 {
		t.Fatalf("expected only the direct utterance, got %v", spoken)
	}
}
