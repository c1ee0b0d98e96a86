package orchestration

import (
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
)

// speechOutput speaks one utterance at a time. All methods run on the
// coordinator queue.
type speechOutput struct {
	o *Orchestrator

	config      texttospeech.UtteranceConfig
	preferences []string
	voice       *texttospeech.Voice

	// currentID is the utterance whose completion resumes listening. It is
	// cleared when that utterance ends or is cancelled.
	currentID string
}

func (s *speechOutput) speak(text string) {
	o := s.o
	if text == "" || o.synthesizer == nil || o.currentState() == StateClosed {
		return
	}

	if o.currentState() == StateListening {
		o.lifecycle.requestStop()
		o.emit(events.NewListeningChanged(false))
	}
	o.lifecycle.cancelRestart()
	s.cancel()

	utterance := texttospeech.NewUtterance(text, s.config, s.voice)
	s.currentID = utterance.ID
	o.transition(StateSpeaking)
	o.emit(events.NewUtteranceStarted(utterance.ID, utterance.Text))

	err := o.synthesizer.Speak(o.baseContext, utterance,
		texttospeech.WithUtteranceEndCallback(func(u texttospeech.Utterance) {
			o.post(func() { s.onUtteranceEnded(u.ID) })
		}),
		texttospeech.WithErrorCallback(func(u texttospeech.Utterance, err error) {
			logger.Warn("speech synthesis failed", "utterance_id", u.ID, "error", err)
			o.post(func() { s.onUtteranceEnded(u.ID) })
		}),
	)
	if err != nil {
		// synthesis is fire-and-forget, a failed utterance counts as spoken
		logger.Warn("failed to speak", "utterance_id", utterance.ID, "error", err)
		o.post(func() { s.onUtteranceEnded(utterance.ID) })
	}
}

// cancel stops the current utterance. Its completion will be ignored.
func (s *speechOutput) cancel() {
	if s.currentID == "" {
		return
	}
	s.currentID = ""
	if err := s.o.synthesizer.Cancel(); err != nil {
		logger.Warn("failed to cancel utterance", "error", err)
	}
}

func (s *speechOutput) onUtteranceEnded(utteranceID string) {
	if utteranceID == "" || utteranceID != s.currentID {
		return
	}
	s.currentID = ""

	o := s.o
	o.emit(events.NewUtteranceEnded(utteranceID))
	o.transition(StateIdle)
	o.emit(events.NewAssistantTextUpdated(""))
	o.lifecycle.requestStart()
}

// selectVoice picks the voice for future utterances from the synthesizer's
// voice list, if it publishes one.
func (s *speechOutput) selectVoice() {
	lister, ok := s.o.synthesizer.(texttospeech.VoiceLister)
	if !ok {
		return
	}

	s.voice = texttospeech.SelectVoice(lister.Voices(), s.preferences...)
	if s.voice == nil {
		logger.Info("no preferred voice available, using synthesizer default")
		return
	}
	logger.Debug("selected voice", "name", s.voice.Name, "lang", s.voice.Lang)
}
