package orchestration

import (
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
)

const (
	DefaultRestartDelay       = 1000 * time.Millisecond
	DefaultGreetingDelay      = 1 * time.Second
	DefaultInitialListenDelay = 2 * time.Second
	DefaultRecognitionLang    = "en-US"
)

type OrchestratorOption func(*Orchestrator)

func WithRecognizer(recognizer speechtotext.Recognizer) OrchestratorOption {
	return func(o *Orchestrator) { o.recognizer = recognizer }
}

func WithRecognitionLang(lang string) OrchestratorOption {
	return func(o *Orchestrator) {
		if lang != "" {
			o.recognitionLang = lang
		}
	}
}

func WithSynthesizer(synthesizer texttospeech.Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesizer = synthesizer }
}

func WithReasoner(reasoner Reasoner) OrchestratorOption {
	return func(o *Orchestrator) { o.reasoner = reasoner }
}

// WithActions replaces the command action registry. Without it, the default
// URL actions are used with the configured opener.
func WithActions(registry *commands.Registry) OrchestratorOption {
	return func(o *Orchestrator) { o.dispatcher.registry = registry }
}

// WithOpener sets how URL actions open pages. It has no effect when
// [WithActions] is used.
func WithOpener(opener commands.Opener) OrchestratorOption {
	return func(o *Orchestrator) { o.opener = opener }
}

// WithAssistantName sets the assistant's name. Unless [WithWakePhrase] is
// given, the name is also the wake phrase.
func WithAssistantName(name string) OrchestratorOption {
	return func(o *Orchestrator) { o.assistantName = name }
}

func WithWakePhrase(phrase string) OrchestratorOption {
	return func(o *Orchestrator) { o.wakePhrase = &phrase }
}

// WithUserName sets the name used in the greeting.
func WithUserName(name string) OrchestratorOption {
	return func(o *Orchestrator) { o.userName = name }
}

// WithGreeting overrides the text spoken shortly after Orchestrate starts. An
// empty greeting disables it.
func WithGreeting(greeting string) OrchestratorOption {
	return func(o *Orchestrator) { o.greeting = &greeting }
}

func WithGreetingDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.greetingDelay = delay
		}
	}
}

// WithInitialListenDelay sets how long after Orchestrate the first
// recognition session is started.
func WithInitialListenDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.initialListenDelay = delay
		}
	}
}

// WithRestartDelay sets the delay before recognition is restarted after a
// session ends or fails on its own.
func WithRestartDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.restartDelay = delay
		}
	}
}

func WithUtteranceConfig(config texttospeech.UtteranceConfig) OrchestratorOption {
	return func(o *Orchestrator) { o.speech.config = config }
}

// WithVoicePreferences sets the language preferences used to pick a voice,
// tried in order. A trailing "*" matches a language prefix.
func WithVoicePreferences(prefs ...string) OrchestratorOption {
	return func(o *Orchestrator) {
		if len(prefs) > 0 {
			o.speech.preferences = prefs
		}
	}
}

func withScheduler(s scheduler) OrchestratorOption {
	return func(o *Orchestrator) { o.scheduler = s }
}

type OrchestrateOptions struct {
	onEvent            func(event events.Event)
	onStateChanged     func(from, to State)
	onListeningChanged func(listening bool)
	onUserText         func(text string)
	onAssistantText    func(text string)
	onCommand          func(command commands.Command)
	onError            func(err error)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithEventCallback registers a callback that receives every event. It is
// called before the typed callbacks.
func WithEventCallback(callback func(event events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEvent = callback
	}
}

func WithStateChangedCallback(callback func(from, to State)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStateChanged = callback
	}
}

// WithListeningCallback registers a callback for the listening indicator. It
// is only called when the indicator changes.
func WithListeningCallback(callback func(listening bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onListeningChanged = callback
	}
}

// WithUserTextCallback registers a callback for the text shown for the user:
// the transcript that matched the wake phrase, cleared once answered.
func WithUserTextCallback(callback func(text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onUserText = callback
	}
}

// WithAssistantTextCallback registers a callback for the text shown for the
// assistant: the response being spoken, cleared once it has been spoken.
func WithAssistantTextCallback(callback func(text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onAssistantText = callback
	}
}

func WithCommandCallback(callback func(command commands.Command)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onCommand = callback
	}
}

// WithErrorCallback registers a callback for reasoner failures. Recognition
// and synthesis failures are recovered internally and not reported here.
func WithErrorCallback(callback func(err error)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onError = callback
	}
}
