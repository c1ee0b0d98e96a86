package orchestration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
)

// Orchestrator coordinates continuous speech recognition with speech output:
// it listens for the wake phrase, sends the transcript to the reasoner, speaks
// the answer, runs the command's action and then resumes listening.
//
// Every state change runs on a single serial queue, so service callbacks
// never interleave with each other or with public calls.
type Orchestrator struct {
	recognizer      speechtotext.Recognizer
	recognitionLang string
	synthesizer     texttospeech.Synthesizer
	reasoner        Reasoner
	opener          commands.Opener

	assistantName      string
	wakePhrase         *string
	userName           string
	greeting           *string
	greetingDelay      time.Duration
	initialListenDelay time.Duration
	restartDelay       time.Duration

	queue     serialQueue
	scheduler scheduler
	state     atomic.Int32

	lifecycle  recognitionLifecycle
	speech     speechOutput
	wakeWord   WakeWordFilter
	dispatcher commandDispatcher

	timerSeq      uint64
	greetingTimer timerSlot
	listenTimer   timerSlot

	emitter   eventEmitter
	listening bool
	display   Snapshot
	displayMu sync.RWMutex

	baseContext context.Context
	cancelBase  context.CancelFunc
	cancelHook  chan struct{}
	workers     sync.WaitGroup

	orchestrateOnce sync.Once
	closeOnce       sync.Once
	closed          chan struct{}
}

// Snapshot is a point-in-time view of what the assistant shows.
type Snapshot struct {
	State         State
	Listening     bool
	UserText      string
	AssistantText string
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		recognitionLang:    DefaultRecognitionLang,
		greetingDelay:      DefaultGreetingDelay,
		initialListenDelay: DefaultInitialListenDelay,
		restartDelay:       DefaultRestartDelay,
		opener:             commands.BrowserOpener{},
		scheduler:          timeScheduler{},
		emitter:            noopEventEmitter,
		baseContext:        context.Background(),
		cancelBase:         func() {},
	}
	o.lifecycle.o = o
	o.speech = speechOutput{
		o:           o,
		config:      texttospeech.DefaultUtteranceConfig(),
		preferences: texttospeech.DefaultVoicePreferences,
	}
	o.dispatcher.o = o

	for _, opt := range opts {
		opt(o)
	}

	if o.dispatcher.registry == nil {
		o.dispatcher.registry = commands.NewDefaultRegistry(o.opener)
	}
	wakePhrase := o.assistantName
	if o.wakePhrase != nil {
		wakePhrase = *o.wakePhrase
	}
	o.wakeWord = NewWakeWordFilter(wakePhrase)

	return o
}

// Orchestrate mounts the orchestrator: it picks a voice, schedules the
// greeting and the first recognition session, and returns without blocking.
//
// Cancelling ctx closes the orchestrator. Orchestrate only has an effect the
// first time it is called, and never after Close.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	o.orchestrateOnce.Do(func() {
		orchestrateOptions := OrchestrateOptions{}
		for _, opt := range opts {
			opt(&orchestrateOptions)
		}

		o.queue.post(func() {
			if o.currentState() == StateClosed {
				logger.Warn("orchestrator already closed, skipping Orchestrate")
				return
			}

			o.baseContext, o.cancelBase = context.WithCancel(ctx)
			o.emitter = newCallbackEventEmitter(orchestrateOptions)
			o.cancelHook = withContextCancelHook(ctx, o.CloseAsync)

			o.speech.selectVoice()
			o.schedule(&o.greetingTimer, o.greetingDelay, func() {
				o.speech.speak(o.greetingText())
			})
			o.schedule(&o.listenTimer, o.initialListenDelay, o.lifecycle.requestStart)
		})
	})
}

// Close stops recognition, cancels speech and drops every pending timer.
// Events that arrive afterwards are ignored. Close is idempotent and returns
// once teardown has run.
//
// Close must not be called from an Orchestrate callback, since teardown runs
// on the goroutine delivering the callback. Use [Orchestrator.CloseAsync]
// there.
func (o *Orchestrator) Close() {
	<-o.requestClose()
}

// CloseAsync queues the same teardown as Close and returns without waiting
// for it. From inside an Orchestrate callback, teardown runs as soon as the
// callback returns.
func (o *Orchestrator) CloseAsync() {
	o.requestClose()
}

// requestClose queues teardown once. The returned channel is closed when
// teardown has run.
func (o *Orchestrator) requestClose() <-chan struct{} {
	o.closeOnce.Do(func() {
		o.closed = make(chan struct{})
		done := o.closed
		o.queue.post(func() {
			defer close(done)
			o.teardown()
		})
	})
	return o.closed
}

func (o *Orchestrator) teardown() {
	o.cancelTimer(&o.greetingTimer)
	o.cancelTimer(&o.listenTimer)
	o.lifecycle.cancelRestart()

	if o.synthesizer != nil {
		o.speech.currentID = ""
		if err := o.synthesizer.Cancel(); err != nil {
			logger.Warn("failed to cancel speech on close", "error", err)
		}
	}
	o.lifecycle.requestStop()

	o.transition(StateClosed)
	o.emit(events.NewListeningChanged(false))

	o.cancelBase()
	if o.cancelHook != nil {
		close(o.cancelHook)
		o.cancelHook = nil
	}
}

// Speak speaks text, interrupting any utterance in progress. Listening pauses
// while speaking and resumes once the utterance has been played.
func (o *Orchestrator) Speak(text string) {
	o.post(func() { o.speech.speak(text) })
}

// RefreshVoice picks the voice again, for synthesizers whose voice list can
// change after start-up.
func (o *Orchestrator) RefreshVoice() {
	o.post(o.speech.selectVoice)
}

func (o *Orchestrator) State() State {
	return o.currentState()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.displayMu.RLock()
	defer o.displayMu.RUnlock()

	snapshot := o.display
	snapshot.State = o.currentState()
	return snapshot
}

func (o *Orchestrator) AssistantName() string { return o.assistantName }
func (o *Orchestrator) WakePhrase() string    { return o.wakeWord.Phrase() }

func (o *Orchestrator) greetingText() string {
	if o.greeting != nil {
		return *o.greeting
	}
	if o.userName == "" {
		return "Hello, what can I help you with?"
	}
	return fmt.Sprintf("Hello %s, what can I help you with?", o.userName)
}

// post queues fn unless the orchestrator has been closed by the time it runs.
func (o *Orchestrator) post(fn func()) {
	o.queue.post(func() {
		if o.currentState() == StateClosed {
			return
		}
		fn()
	})
}

func (o *Orchestrator) currentState() State {
	return State(o.state.Load())
}

// transition moves to state to if the transition table allows it. It reports
// whether the state changed.
func (o *Orchestrator) transition(to State) bool {
	from := o.currentState()
	if from == to {
		return false
	}
	if !canTransition(from, to) {
		logger.Warn("ignoring invalid state transition", "from", from.String(), "to", to.String())
		return false
	}

	o.state.Store(int32(to))
	o.emit(events.NewStateChanged(from.String(), to.String()))
	return true
}

func (o *Orchestrator) emit(event events.Event) {
	o.displayMu.Lock()
	switch typedEvent := event.(type) {
	case events.ListeningChanged:
		if typedEvent.Listening == o.listening {
			o.displayMu.Unlock()
			return
		}
		o.listening = typedEvent.Listening
		o.display.Listening = typedEvent.Listening
	case events.UserTextUpdated:
		o.display.UserText = typedEvent.Text
	case events.AssistantTextUpdated:
		o.display.AssistantText = typedEvent.Text
	}
	o.displayMu.Unlock()

	o.emitter(event)
}

// awaitWorkers waits for background reasoner calls and command actions.
func (o *Orchestrator) awaitWorkers() {
	o.workers.Wait()
}
