package orchestration

import (
	"testing"
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
)

func TestNewOrchestratorDefaults(t *testing.T) {
	o := NewOrchestrator()

	if o.restartDelay != DefaultRestartDelay {
		t.Fatalf("expected restart delay %v, got %v", DefaultRestartDelay, o.restartDelay)
	}
	if o.greetingDelay != DefaultGreetingDelay || o.initialListenDelay != DefaultInitialListenDelay {
		t.Fatalf("expected default start-up delays, got %v and %v", o.greetingDelay, o.initialListenDelay)
	}
	if o.recognitionLang != DefaultRecognitionLang {
		t.Fatalf("expected recognition lang %q, got %q", DefaultRecognitionLang, o.recognitionLang)
	}
	if o.speech.config != texttospeech.DefaultUtteranceConfig() {
		t.Fatalf("expected default utterance config, got %+v", o.speech.config)
	}
	if _, ok := o.dispatcher.registry.Lookup(commands.KindYoutubeSearch); !ok {
		t.Fatalf("expected default registry to handle youtube-search")
	}
	if state := o.State(); state != StateIdle {
		t.Fatalf("expected idle, got %v", state)
	}
}

func TestWakePhraseDefaultsToAssistantName(t *testing.T) {
	o := NewOrchestrator(WithAssistantName("  Jarvis "))

	if phrase := o.WakePhrase(); phrase != "jarvis" {
		t.Fatalf("expected wake phrase %q, got %q", "jarvis", phrase)
	}
	if name := o.AssistantName(); name != "  Jarvis " {
		t.Fatalf("expected assistant name to be kept as given, got %q", name)
	}
}

func TestWithWakePhraseOverridesAssistantName(t *testing.T) {
	o := NewOrchestrator(WithAssistantName("Jarvis"), WithWakePhrase("Hey Friday"))

	if phrase := o.WakePhrase(); phrase != "hey friday" {
		t.Fatalf("expected wake phrase %q, got %q", "hey friday", phrase)
	}
}

func TestNegativeDelaysAreIgnored(t *testing.T) {
	o := NewOrchestrator(
		WithRestartDelay(-time.Second),
		WithGreetingDelay(-time.Second),
		WithInitialListenDelay(-time.Second),
	)

	if o.restartDelay != DefaultRestartDelay || o.greetingDelay != DefaultGreetingDelay || o.initialListenDelay != DefaultInitialListenDelay {
		t.Fatalf("expected negative delays to be ignored, got %v %v %v", o.restartDelay, o.greetingDelay, o.initialListenDelay)
	}
}

func TestEmptyOptionValuesKeepDefaults(t *testing.T) {
	o := NewOrchestrator(WithRecognitionLang(""), WithVoicePreferences())

	if o.recognitionLang != DefaultRecognitionLang {
		t.Fatalf("expected default recognition lang, got %q", o.recognitionLang)
	}
	if len(o.speech.preferences) != len(texttospeech.DefaultVoicePreferences) {
		t.Fatalf("expected default voice preferences, got %v", o.speech.preferences)
	}
}

func TestWithActionsReplacesDefaultRegistry(t *testing.T) {
	registry := commands.NewRegistry()
	o := NewOrchestrator(WithActions(registry))

	if _, ok := o.dispatcher.registry.Lookup(commands.KindYoutubeSearch); ok {
		t.Fatalf("expected custom registry without default actions")
	}
}

func TestGreetingText(t *testing.T) {
	tests := []struct {
		name string
		opts []OrchestratorOption
		want string
	}{
		{name: "anonymous", want: "Hello, what can I help you with?"},
		{name: "named user", opts: []OrchestratorOption{WithUserName("Asha")}, want: "Hello Asha, what can I help you with?"},
		{name: "override", opts: []OrchestratorOption{WithUserName("Asha"), WithGreeting("Welcome back")}, want: "Welcome back"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewOrchestrator(tt.opts...).greetingText(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
