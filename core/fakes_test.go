package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/commands"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	starts   int
	stops    int
	active   bool
	startErr error
	options  speechtotext.RecognitionOptions
}

func (r *fakeRecognizer) Start(_ context.Context, opts ...speechtotext.RecognitionOption) error {
	r.mu.Lock()
	r.starts++
	if r.startErr != nil {
		r.mu.Unlock()
		return r.startErr
	}
	if r.active {
		r.mu.Unlock()
		return speechtotext.ErrAlreadyActive
	}
	r.active = true
	r.options = speechtotext.NewRecognitionOptions(opts...)
	options := r.options
	r.mu.Unlock()

	options.StartCallback()
	return nil
}

// Stop ends the session right away, like a session that confirms the stop
// synchronously.
func (r *fakeRecognizer) Stop() error {
	r.mu.Lock()
	r.stops++
	wasActive := r.active
	r.active = false
	options := r.options
	r.mu.Unlock()

	if wasActive {
		options.EndCallback()
	}
	return nil
}

func (r *fakeRecognizer) result(transcript string, isFinal bool) {
	r.mu.Lock()
	options := r.options
	r.mu.Unlock()
	options.ResultCallback(transcript, isFinal)
}

func (r *fakeRecognizer) end() {
	r.mu.Lock()
	r.active = false
	options := r.options
	r.mu.Unlock()
	options.EndCallback()
}

func (r *fakeRecognizer) fail(kind speechtotext.ErrorKind) {
	r.mu.Lock()
	options := r.options
	r.mu.Unlock()
	options.ErrorCallback(kind)
}

func (r *fakeRecognizer) counts() (starts, stops int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts, r.stops
}

func (r *fakeRecognizer) isActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

type fakeSynthesizer struct {
	mu       sync.Mutex
	spoken   []texttospeech.Utterance
	options  []texttospeech.SpeakOptions
	cancels  int
	active   bool
	speakErr error
	voices   []texttospeech.Voice
}

func (s *fakeSynthesizer) Speak(_ context.Context, utterance texttospeech.Utterance, opts ...texttospeech.SpeakOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speakErr != nil {
		return s.speakErr
	}
	s.spoken = append(s.spoken, utterance)
	s.options = append(s.options, texttospeech.NewSpeakOptions(opts...))
	s.active = true
	return nil
}

func (s *fakeSynthesizer) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	s.active = false
	return nil
}

func (s *fakeSynthesizer) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// finish reports the i-th spoken utterance as played, whether or not it was
// cancelled.
func (s *fakeSynthesizer) finish(i int) {
	s.mu.Lock()
	utterance := s.spoken[i]
	options := s.options[i]
	if i == len(s.spoken)-1 {
		s.active = false
	}
	s.mu.Unlock()
	options.UtteranceEndCallback(utterance)
}

func (s *fakeSynthesizer) failUtterance(i int, err error) {
	s.mu.Lock()
	utterance := s.spoken[i]
	options := s.options[i]
	s.active = false
	s.mu.Unlock()
	options.ErrorCallback(utterance, err)
}

func (s *fakeSynthesizer) spokenTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, 0, len(s.spoken))
	for _, utterance := range s.spoken {
		texts = append(texts, utterance.Text)
	}
	return texts
}

func (s *fakeSynthesizer) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

type fakeVoiceSynthesizer struct {
	fakeSynthesizer
}

func (s *fakeVoiceSynthesizer) Voices() []texttospeech.Voice {
	return s.voices
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, timer)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		wasPending := !timer.stopped && !timer.fired
		timer.stopped = true
		return wasPending
	}
}

func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*fakeTimer
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			pending = append(pending, timer)
		}
	}
	return pending
}

func (s *fakeScheduler) fire(timer *fakeTimer) {
	s.mu.Lock()
	timer.fired = true
	s.mu.Unlock()
	timer.fn()
}

// fireAll fires every pending timer, in the order they were created.
func (s *fakeScheduler) fireAll() {
	for _, timer := range s.pending() {
		s.fire(timer)
	}
}

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *recordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, url)
	return nil
}

func (o *recordingOpener) urls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

type testRig struct {
	o           *Orchestrator
	recognizer  *fakeRecognizer
	synthesizer *fakeSynthesizer
	scheduler   *fakeScheduler
	opener      *recordingOpener
}

func staticReasoner(command commands.Command) Reasoner {
	return ReasonerFunc(func(context.Context, string) (*commands.Command, error) {
		return &command, nil
	})
}

func newTestRig(t *testing.T, opts ...OrchestratorOption) *testRig {
	t.Helper()

	rig := &testRig{
		recognizer:  &fakeRecognizer{},
		synthesizer: &fakeSynthesizer{},
		scheduler:   &fakeScheduler{},
		opener:      &recordingOpener{},
	}
	defaults := []OrchestratorOption{
		WithRecognizer(rig.recognizer),
		WithSynthesizer(rig.synthesizer),
		WithOpener(rig.opener),
		WithAssistantName("Jarvis"),
		WithGreeting(""),
		withScheduler(rig.scheduler),
	}
	rig.o = NewOrchestrator(append(defaults, opts...)...)
	t.Cleanup(rig.o.Close)
	return rig
}

// mount runs Orchestrate and fires the start-up timers, leaving the rig
// listening.
func (rig *testRig) mount(t *testing.T, opts ...OrchestrateOption) {
	t.Helper()

	rig.o.Orchestrate(context.Background(), opts...)
	rig.scheduler.fireAll()

	if state := rig.o.State(); state != StateListening {
		t.Fatalf("expected listening after mount, got %v", state)
	}
}
